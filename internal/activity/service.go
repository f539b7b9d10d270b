package activity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	activityDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/activity"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *activityDatamodel.Activity) error
	// List returns every activity when username is empty.
	List(ctx context.Context, username string) ([]*activityDatamodel.Activity, error)
	Delete(ctx context.Context, id int64) error
}

var ErrCannotLogForOthers = internal.NewForbiddenError("Forbidden: Cannot log activity for others", internal.ErrCodeNotResourceOwner)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create logs an activity for the caller. The claimed username must be the
// caller's own; privileged roles cannot log on behalf of others.
func (s *Service) Create(ctx context.Context, actor auth.Identity, dto CreateActivityDTO) (*Activity, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if !auth.RequireSelf(actor, dto.Username) {
		s.logger.Warn("Create: attempt to log activity for another user", "actor", actor.Username, "username", dto.Username)
		return nil, ErrCannotLogForOthers
	}

	row := &activityDatamodel.Activity{
		Description: dto.Description,
		Username:    actor.Username,
		Date:        s.now(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to log activity", err)
	}
	s.logger.Info("Create: activity logged", "activityID", row.ID, "username", row.Username)
	return FromDataModel(row), nil
}

// List filters by username when given, which needs self-or-privileged access.
// Listing everyone's activities is for privileged roles only.
func (s *Service) List(ctx context.Context, actor auth.Identity, username string) ([]*Activity, error) {
	if !auth.IsAuthenticated(actor) {
		return nil, internal.ErrLoginRequired
	}
	if username == "" {
		if !auth.IsOwnerOrOperator(actor) {
			return nil, internal.ErrForbidden
		}
	} else if !auth.CanAccess(actor, username) {
		return nil, internal.ErrForbidden
	}

	rows, err := s.repo.List(ctx, username)
	if err != nil {
		return nil, internal.NewInternalError("failed to list activities", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if !auth.IsOwnerOrOperator(actor) {
		return internal.ErrPrivilegedRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrActivityNotFound) {
			return internal.ErrActivityNotFound
		}
		return internal.NewInternalError("failed to delete activity", err)
	}
	s.logger.Info("Delete: activity deleted", "activityID", id, "by", actor.Username)
	return nil
}
