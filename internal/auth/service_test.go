package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/ticketing/internal"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	mu         sync.Mutex
	users      map[string]*userDatamodel.User
	nextID     int64
	shouldFail bool
	failError  error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	return &mockUserRepository{
		users: map[string]*userDatamodel.User{
			"bob":   {ID: 1, Username: "bob", FullName: "Bob", PasswordHash: string(hash), Role: "Teknisi"},
			"alice": {ID: 2, Username: "alice", FullName: "Alice", PasswordHash: string(hash), Role: "Operator"},
		},
		nextID: 3,
	}
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) Create(_ context.Context, u *userDatamodel.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return m.failError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.Username] = u
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockUserRepository()
		service = NewService(mockRepo, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return the account without exposing the hash", func() {
				// Given
				dto := LoginDTO{Username: " bob ", Password: "correct_password"}

				// When
				account, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(account.Username).To(gomega.Equal("bob"))
				gomega.Expect(account.Role).To(gomega.Equal(RoleTeknisi))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should not distinguish unknown users from wrong passwords", func() {
				_, errUnknown := service.Authenticate(ctx, LoginDTO{Username: "nobody", Password: "correct_password"})
				_, errWrong := service.Authenticate(ctx, LoginDTO{Username: "bob", Password: "wrong"})

				gomega.Expect(errUnknown).To(gomega.MatchError(internal.ErrInvalidCredentials))
				gomega.Expect(errWrong).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject empty fields with a validation error", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Username: "", Password: ""})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
			})
		})

		ginkgo.Context("when the repository fails", func() {
			ginkgo.It("should surface an internal error", func() {
				mockRepo.shouldFail = true
				mockRepo.failError = errors.New("connection refused")

				_, err := service.Authenticate(ctx, LoginDTO{Username: "bob", Password: "correct_password"})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("creates a Teknisi with the default photo for anonymous callers", func() {
			account, err := service.Register(ctx, Anonymous, RegisterDTO{Username: "carol", Password: "secret1", FullName: "Carol"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.Role).To(gomega.Equal(RoleTeknisi))
			gomega.Expect(account.Photo).To(gomega.Equal(DefaultPhoto))
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(mockRepo.users["carol"].PasswordHash), []byte("secret1"))).To(gomega.Succeed())
		})

		ginkgo.It("refuses privileged roles unless the caller is an Owner", func() {
			_, err := service.Register(ctx, Identity{Username: "alice", Role: RoleOperator}, RegisterDTO{Username: "dave", Password: "secret1", Role: "Operator"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrOwnerRequired))

			account, err := service.Register(ctx, Identity{Username: "olga", Role: RoleOwner}, RegisterDTO{Username: "dave", Password: "secret1", Role: "Operator"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.Role).To(gomega.Equal(RoleOperator))
		})

		ginkgo.It("rejects duplicate usernames", func() {
			_, err := service.Register(ctx, Anonymous, RegisterDTO{Username: "bob", Password: "secret1"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUsernameTaken))
			gomega.Expect(err.Error()).To(gomega.Equal("Username already exists"))
		})

		ginkgo.It("enforces username and password length", func() {
			_, err := service.Register(ctx, Anonymous, RegisterDTO{Username: "ab", Password: "123"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			gomega.Expect(details.Errors).To(gomega.HaveLen(2))
		})

		ginkgo.It("rejects unknown roles", func() {
			_, err := service.Register(ctx, Identity{Username: "olga", Role: RoleOwner}, RegisterDTO{Username: "erin", Password: "secret1", Role: "Admin"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})
	})
})
