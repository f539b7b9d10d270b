package user_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"github.com/frahmantamala/ticketing/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type MockRepository struct {
	users      map[string]*userDatamodel.User
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	return &MockRepository{users: map[string]*userDatamodel.User{
		"olga":  {ID: 1, Username: "olga", Role: "Owner", PasswordHash: string(hash)},
		"alice": {ID: 2, Username: "alice", Role: "Operator", PasswordHash: string(hash)},
		"bob":   {ID: 3, Username: "bob", Role: "Teknisi", PasswordHash: string(hash), Phone: "0800"},
	}}
}

func (m *MockRepository) List(_ context.Context) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*userDatamodel.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MockRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *MockRepository) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	for _, u := range m.users {
		if u.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "phone":
				u.Phone = v.(string)
			case "password_hash":
				u.PasswordHash = v.(string)
			case "photo":
				u.Photo = v.(string)
			case "full_name":
				u.FullName = v.(string)
			case "role":
				u.Role = v.(string)
			}
		}
	}
	return nil
}

func (m *MockRepository) UpdateRole(_ context.Context, username, role string) (int64, error) {
	u, ok := m.users[username]
	if !ok {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}

func (m *MockRepository) Delete(_ context.Context, username string) (int64, error) {
	if _, ok := m.users[username]; !ok {
		return 0, nil
	}
	delete(m.users, username)
	return 1, nil
}

type MockRevoker struct {
	revoked []string
}

func (m *MockRevoker) RevokeUser(_ context.Context, username string) error {
	m.revoked = append(m.revoked, username)
	return nil
}

var (
	owner    = auth.Identity{Username: "olga", Role: auth.RoleOwner}
	operator = auth.Identity{Username: "alice", Role: auth.RoleOperator}
	bob      = auth.Identity{Username: "bob", Role: auth.RoleTeknisi}
	carol    = auth.Identity{Username: "carol", Role: auth.RoleTeknisi}
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		repo    *MockRepository
		revoker *MockRevoker
		service *user.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		revoker = &MockRevoker{}
		service = user.NewService(repo, revoker, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("List", func() {
		It("is limited to Owner and Operator", func() {
			_, err := service.List(ctx, bob)
			Expect(err).To(MatchError(internal.ErrPrivilegedRequired))

			users, err := service.List(ctx, operator)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))
		})

		It("hides storage failures behind an internal error", func() {
			repo.shouldFail = true
			repo.failError = errors.New("db down")

			_, err := service.List(ctx, owner)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("Get", func() {
		It("allows self and privileged callers", func() {
			u, err := service.Get(ctx, bob, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("bob"))

			_, err = service.Get(ctx, operator, "bob")
			Expect(err).NotTo(HaveOccurred())
		})

		It("forbids other teknisi", func() {
			_, err := service.Get(ctx, carol, "bob")
			Expect(err).To(MatchError(internal.ErrForbidden))
		})

		It("returns 404 for unknown users", func() {
			_, err := service.Get(ctx, owner, "ghost")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("UpdateProfile", func() {
		It("requires an exact self match even for the Owner", func() {
			_, err := service.UpdateProfile(ctx, owner, user.UpdateProfileDTO{Username: "bob", CurrentPassword: "oldpass"})
			Expect(err).To(MatchError(user.ErrCannotUpdateOthers))
		})

		It("re-verifies the current password", func() {
			_, err := service.UpdateProfile(ctx, bob, user.UpdateProfileDTO{Username: "bob", CurrentPassword: "wrong"})
			Expect(err).To(MatchError(internal.ErrIncorrectPassword))
		})

		It("updates phone, password and photo", func() {
			photo := "/uploads/photos/new.png"

			u, err := service.UpdateProfile(ctx, bob, user.UpdateProfileDTO{
				Username: "bob", CurrentPassword: "oldpass", NewPassword: "newpass", Phone: "0811", Photo: &photo,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Phone).To(Equal("0811"))
			Expect(u.Photo).To(Equal(photo))
			Expect(bcrypt.CompareHashAndPassword([]byte(repo.users["bob"].PasswordHash), []byte("newpass"))).To(Succeed())
		})

		It("keeps the phone when none is given", func() {
			u, err := service.UpdateProfile(ctx, bob, user.UpdateProfileDTO{Username: "bob", CurrentPassword: "oldpass"})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Phone).To(Equal("0800"))
		})
	})

	Describe("AdminUpdate", func() {
		It("is Owner only", func() {
			err := service.AdminUpdate(ctx, operator, user.AdminUpdateDTO{OriginalUsername: "bob", FullName: "Robert"})
			Expect(err).To(MatchError(internal.ErrOwnerRequired))
		})

		It("updates without the current password", func() {
			err := service.AdminUpdate(ctx, owner, user.AdminUpdateDTO{OriginalUsername: "bob", FullName: "Robert", Role: "Operator", Password: "reset123"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.users["bob"].FullName).To(Equal("Robert"))
			Expect(repo.users["bob"].Role).To(Equal("Operator"))
		})

		It("rejects unknown roles", func() {
			err := service.AdminUpdate(ctx, owner, user.AdminUpdateDTO{OriginalUsername: "bob", Role: "Admin"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("returns 404 for unknown users", func() {
			err := service.AdminUpdate(ctx, owner, user.AdminUpdateDTO{OriginalUsername: "ghost"})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("UpdateRole", func() {
		It("changes the role when it parses", func() {
			Expect(service.UpdateRole(ctx, owner, user.UpdateRoleDTO{Username: "bob", NewRole: "Operator"})).To(Succeed())
			Expect(repo.users["bob"].Role).To(Equal("Operator"))
		})

		It("rejects roles outside the closed set", func() {
			err := service.UpdateRole(ctx, owner, user.UpdateRoleDTO{Username: "bob", NewRole: "Superuser"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(repo.users["bob"].Role).To(Equal("Teknisi"))
		})

		It("returns 404 when nothing matched", func() {
			err := service.UpdateRole(ctx, owner, user.UpdateRoleDTO{Username: "ghost", NewRole: "Teknisi"})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("deletes and revokes sessions", func() {
			Expect(service.Delete(ctx, owner, "bob")).To(Succeed())
			Expect(repo.users).NotTo(HaveKey("bob"))
			Expect(revoker.revoked).To(ConsistOf("bob"))
		})

		It("is Owner only", func() {
			Expect(service.Delete(ctx, operator, "bob")).To(MatchError(internal.ErrOwnerRequired))
		})

		It("returns 404 for unknown users", func() {
			Expect(service.Delete(ctx, owner, "ghost")).To(MatchError(internal.ErrUserNotFound))
			Expect(revoker.revoked).To(BeEmpty())
		})
	})
})
