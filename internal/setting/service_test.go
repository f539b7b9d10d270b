package setting_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/setting"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSetting(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Setting Suite")
}

type MockRepository struct {
	values     map[string]string
	shouldFail bool
}

func (m *MockRepository) Get(_ context.Context, key string) (string, error) {
	if m.shouldFail {
		return "", errors.New("db down")
	}
	v, ok := m.values[key]
	if !ok {
		return "", setting.ErrSettingNotFound
	}
	return v, nil
}

func (m *MockRepository) Upsert(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

var (
	olga  = auth.Identity{Username: "olga", Role: auth.RoleOwner}
	alice = auth.Identity{Username: "alice", Role: auth.RoleOperator}
)

var _ = Describe("SettingService", func() {
	var (
		ctx     context.Context
		repo    *MockRepository
		service *setting.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &MockRepository{values: map[string]string{}}
		service = setting.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("falls back to the default company name and a null logo", func() {
		name, err := service.CompanyName(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal(setting.DefaultCompanyName))

		logo, err := service.CompanyLogo(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(logo).To(BeNil())
	})

	It("lets the Owner rename the company", func() {
		name, err := service.UpdateCompanyName(ctx, olga, "Nusantara Net")
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("Nusantara Net"))
		Expect(service.CompanyName(ctx)).To(Equal("Nusantara Net"))
	})

	It("rejects an empty name with 400", func() {
		_, err := service.UpdateCompanyName(ctx, olga, "   ")
		Expect(err).To(MatchError(setting.ErrEmptyCompanyName))
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("keeps settings writes Owner only", func() {
		_, err := service.UpdateCompanyName(ctx, alice, "x")
		Expect(err).To(MatchError(internal.ErrOwnerRequired))
		logo := "/uploads/logos/a.png"
		_, err = service.UpdateCompanyLogo(ctx, alice, &logo)
		Expect(err).To(MatchError(internal.ErrOwnerRequired))
	})

	It("requires an uploaded logo", func() {
		_, err := service.UpdateCompanyLogo(ctx, olga, nil)
		Expect(err).To(MatchError(setting.ErrNoFileUploaded))
	})

	It("stores the logo path", func() {
		logo := "/uploads/logos/a.png"
		_, err := service.UpdateCompanyLogo(ctx, olga, &logo)
		Expect(err).NotTo(HaveOccurred())
		got, err := service.CompanyLogo(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveValue(Equal(logo)))
	})

	It("hides storage failures behind an internal error", func() {
		repo.shouldFail = true
		_, err := service.CompanyName(ctx)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
