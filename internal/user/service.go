package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateRole(ctx context.Context, username string, role string) (int64, error)
	Delete(ctx context.Context, username string) (int64, error)
}

// SessionRevoker ends the sessions of a deleted user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, username string) error
}

var ErrCannotUpdateOthers = internal.NewForbiddenError("Forbidden: Cannot update other users profile", internal.ErrCodeNotResourceOwner)

type Service struct {
	repo       RepositoryAPI
	sessions   SessionRevoker
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, sessions SessionRevoker, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]*User, error) {
	if !auth.IsOwnerOrOperator(actor) {
		return nil, internal.ErrPrivilegedRequired
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return FromDataModels(rows), nil
}

// Get checks access before the lookup, so a forbidden caller cannot probe usernames.
func (s *Service) Get(ctx context.Context, actor auth.Identity, username string) (*User, error) {
	if !auth.CanAccess(actor, username) {
		return nil, internal.ErrForbidden
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	return FromDataModel(u), nil
}

// UpdateProfile lets a user change their own phone, password and photo after
// re-entering the current password.
func (s *Service) UpdateProfile(ctx context.Context, actor auth.Identity, dto UpdateProfileDTO) (*User, error) {
	dto.Normalize()
	if !auth.RequireSelf(actor, dto.Username) {
		s.logger.Warn("UpdateProfile: attempt to update another user", "actor", actor.Username, "target", dto.Username)
		return nil, ErrCannotUpdateOthers
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		return nil, s.mapLookupError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return nil, internal.ErrIncorrectPassword
	}

	fields := map[string]interface{}{}
	if dto.Phone != "" {
		fields["phone"] = dto.Phone
	}
	if dto.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		fields["password_hash"] = string(hash)
	}
	if dto.Photo != nil && *dto.Photo != "" {
		fields["photo"] = *dto.Photo
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, u.ID, fields); err != nil {
			return nil, internal.NewInternalError("failed to update profile", err)
		}
	}

	updated, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		return nil, s.mapLookupError(err)
	}
	s.logger.Info("UpdateProfile: profile updated", "username", dto.Username, "fields", len(fields))
	return FromDataModel(updated), nil
}

// AdminUpdate is the Owner's edit of any account; no password re-verification.
func (s *Service) AdminUpdate(ctx context.Context, actor auth.Identity, dto AdminUpdateDTO) error {
	if !auth.IsAdmin(actor) {
		return internal.ErrOwnerRequired
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByUsername(ctx, dto.OriginalUsername)
	if err != nil {
		return s.mapLookupError(err)
	}

	fields := map[string]interface{}{}
	if dto.FullName != "" {
		fields["full_name"] = dto.FullName
	}
	if dto.Phone != "" {
		fields["phone"] = dto.Phone
	}
	if dto.Role != "" {
		role, err := auth.ParseRole(dto.Role)
		if err != nil {
			return internal.NewValidationFieldError("role", "role must be one of: Owner, Operator, Teknisi", internal.ErrCodeInvalidValue)
		}
		fields["role"] = role.String()
	}
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
		if err != nil {
			return internal.NewInternalError("failed to hash password", err)
		}
		fields["password_hash"] = string(hash)
	}

	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.Update(ctx, u.ID, fields); err != nil {
		return internal.NewInternalError("failed to update user", err)
	}
	s.logger.Info("AdminUpdate: user updated", "username", u.Username, "by", actor.Username)
	return nil
}

func (s *Service) UpdateRole(ctx context.Context, actor auth.Identity, dto UpdateRoleDTO) error {
	if !auth.IsAdmin(actor) {
		return internal.ErrOwnerRequired
	}
	if err := dto.Validate(); err != nil {
		return err
	}
	role, err := auth.ParseRole(dto.NewRole)
	if err != nil {
		return internal.NewValidationFieldError("newRole", "newRole must be one of: Owner, Operator, Teknisi", internal.ErrCodeInvalidValue)
	}

	affected, err := s.repo.UpdateRole(ctx, dto.Username, role.String())
	if err != nil {
		return internal.NewInternalError("failed to update role", err)
	}
	if affected == 0 {
		return internal.ErrUserNotFound
	}
	s.logger.Info("UpdateRole: role changed", "username", dto.Username, "role", role, "by", actor.Username)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, username string) error {
	if !auth.IsAdmin(actor) {
		return internal.ErrOwnerRequired
	}
	affected, err := s.repo.Delete(ctx, username)
	if err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}
	if affected == 0 {
		return internal.ErrUserNotFound
	}
	if s.sessions != nil {
		if err := s.sessions.RevokeUser(ctx, username); err != nil {
			s.logger.Error("Delete: failed to revoke sessions", "username", username, "error", err)
		}
	}
	s.logger.Info("Delete: user deleted", "username", username, "by", actor.Username)
	return nil
}

func (s *Service) mapLookupError(err error) error {
	if errors.Is(err, internal.ErrUserNotFound) {
		return internal.ErrUserNotFound
	}
	return internal.NewInternalError("failed to load user", err)
}
