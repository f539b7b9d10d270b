package setting

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
)

type RepositoryAPI interface {
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
}

// ErrSettingNotFound is returned by repositories for an unset key.
var ErrSettingNotFound = errors.New("setting not found")

var (
	ErrEmptyCompanyName = internal.NewValidationError("Company name cannot be empty", internal.ErrCodeRequired)
	ErrNoFileUploaded   = internal.NewValidationError("No file uploaded", internal.ErrCodeRequired)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CompanyName(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, KeyCompanyName)
	if errors.Is(err, ErrSettingNotFound) {
		return DefaultCompanyName, nil
	}
	if err != nil {
		return "", internal.NewInternalError("failed to read company name", err)
	}
	return v, nil
}

func (s *Service) UpdateCompanyName(ctx context.Context, actor auth.Identity, name string) (string, error) {
	if !auth.IsAdmin(actor) {
		return "", internal.ErrOwnerRequired
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyCompanyName
	}
	if err := s.repo.Upsert(ctx, KeyCompanyName, name); err != nil {
		return "", internal.NewInternalError("failed to update company name", err)
	}
	s.logger.Info("UpdateCompanyName: company name changed", "by", actor.Username)
	return name, nil
}

// CompanyLogo returns nil when no logo has been uploaded.
func (s *Service) CompanyLogo(ctx context.Context) (*string, error) {
	v, err := s.repo.Get(ctx, KeyCompanyLogo)
	if errors.Is(err, ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal.NewInternalError("failed to read company logo", err)
	}
	return &v, nil
}

func (s *Service) UpdateCompanyLogo(ctx context.Context, actor auth.Identity, logoURL *string) (string, error) {
	if !auth.IsAdmin(actor) {
		return "", internal.ErrOwnerRequired
	}
	if logoURL == nil || *logoURL == "" {
		return "", ErrNoFileUploaded
	}
	if err := s.repo.Upsert(ctx, KeyCompanyLogo, *logoURL); err != nil {
		return "", internal.NewInternalError("failed to update company logo", err)
	}
	s.logger.Info("UpdateCompanyLogo: company logo changed", "by", actor.Username, "logoUrl", *logoURL)
	return *logoURL, nil
}
