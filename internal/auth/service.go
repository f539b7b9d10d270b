package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/ticketing/internal"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the credential store used by login and registration.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

var ErrUserNotFound = errors.New("user not found")

// Service is the main auth service with dependencies
type Service struct {
	userRepo   UserRepository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(userRepo UserRepository, bcryptCost int, lg *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     lg,
	}
}

// Authenticate verifies the credentials. Unknown users and wrong passwords
// produce the same error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*Account, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.WarnContext(ctx, "login failed: unknown user", "username", dto.Username)
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.WarnContext(ctx, "login failed: wrong password", "username", dto.Username)
		return nil, internal.ErrInvalidCredentials
	}

	return AccountFromDataModel(u), nil
}

// Register creates a user. Anonymous callers and non-Owners may only create
// Teknisi accounts; an Owner session may pick any role.
func (s *Service) Register(ctx context.Context, actor Identity, dto RegisterDTO) (*Account, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := RoleTeknisi
	if dto.Role != "" {
		parsed, err := ParseRole(dto.Role)
		if err != nil {
			return nil, internal.NewValidationFieldError("role", "role must be one of: Owner, Operator, Teknisi", internal.ErrCodeInvalidValue)
		}
		role = parsed
	}
	if role != RoleTeknisi && !IsAdmin(actor) {
		s.logger.WarnContext(ctx, "register denied: role requires owner", "requested_role", role, "actor", actor.Username)
		return nil, internal.ErrOwnerRequired
	}

	_, err := s.userRepo.GetByUsername(ctx, dto.Username)
	switch {
	case err == nil:
		return nil, internal.ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, internal.NewInternalError("failed to check username", err)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	photo := DefaultPhoto
	if dto.Photo != nil && *dto.Photo != "" {
		photo = *dto.Photo
	}

	u := &userDatamodel.User{
		Username:     dto.Username,
		FullName:     dto.FullName,
		PasswordHash: hash,
		Phone:        dto.Phone,
		Role:         role.String(),
		Photo:        photo,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrUsernameTaken) {
			return nil, internal.ErrUsernameTaken
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "username", u.Username, "role", u.Role, "by", actor.Username)
	return AccountFromDataModel(u), nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
