package auth_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	userDatamodel "github.com/frahmantamala/cxm/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	byEmail       map[string]*userDatamodel.User
	returnError   bool
	errorToReturn error
	touched       []string
	touchErr      error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	return &mockUserRepository{
		byEmail: map[string]*userDatamodel.User{
			"agent@example.com": {
				ID: "u-agent", Email: "agent@example.com", Name: "کارشناس",
				PasswordHash: string(hash), Role: auth.RoleSalesAgentFa, IsActive: true,
			},
			"inactive@example.com": {
				ID: "u-off", Email: "inactive@example.com", Name: "غیرفعال",
				PasswordHash: string(hash), Role: auth.RoleSupport, IsActive: false,
			},
		},
	}
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.byEmail[email], nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	u.ID = "u-new"
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched = append(m.touched, id)
	return nil
}

var _ = Describe("Service", func() {
	var (
		repo    *mockUserRepository
		service *auth.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		gen := auth.NewJWTTokenGenerator("0123456789abcdef0123456789abcdef", time.Hour)
		service = auth.NewService(repo, gen, bcrypt.MinCost)
		ctx = context.Background()
	})

	Describe("Login", func() {
		It("mints a token whose claims carry id, role and email", func() {
			result, err := service.Login(ctx, auth.LoginDTO{Email: " Agent@Example.com ", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.User.Role).To(Equal(auth.RoleSalesAgentFa))
			Expect(result.User.LastLoginAt).NotTo(BeNil())
			Expect(repo.touched).To(ConsistOf("u-agent"))

			claims := auth.NewCodec().Decode(result.Token)
			Expect(claims).NotTo(BeNil())
			Expect(claims.ID).To(Equal("u-agent"))
			Expect(claims.Role).To(Equal(auth.RoleSalesAgentFa))
			Expect(claims.Email).To(Equal("agent@example.com"))
		})

		It("rejects missing fields before touching the store", func() {
			repo.setError(errors.New("must not be called"))
			_, err := service.Login(ctx, auth.LoginDTO{Email: "agent@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects a wrong password", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "agent@example.com", Password: "nope"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})

		It("rejects an unknown email with the same error", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ghost@example.com", Password: "x"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})

		It("rejects inactive users", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "inactive@example.com", Password: "correct_password"})
			Expect(errors.Is(err, internal.ErrUserInactive)).To(BeTrue())
		})

		It("still signs in when the last-login stamp fails", func() {
			repo.touchErr = errors.New("timeout")
			result, err := service.Login(ctx, auth.LoginDTO{Email: "agent@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.LastLoginAt).To(BeNil())
		})

		It("wraps store failures", func() {
			repo.setError(errors.New("db down"))
			_, err := service.Login(ctx, auth.LoginDTO{Email: "agent@example.com", Password: "x"})
			Expect(err).To(MatchError(ContainSubstring("db down")))
			_, isApp := internal.IsAppError(err)
			Expect(isApp).To(BeFalse())
		})
	})

	Describe("Register", func() {
		It("creates an active sales agent with a hashed password", func() {
			user, err := service.Register(ctx, auth.RegisterDTO{
				Name: "علي رضايي", Email: "New@Example.com", Password: "longenough", Phone: "۰۹۱۲۱۲۳۴۵۶۷",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("u-new"))
			Expect(user.Role).To(Equal(auth.DefaultRole))
			Expect(user.Name).To(Equal("علی رضایی"))
			Expect(user.Phone).To(Equal("09121234567"))

			stored := repo.byEmail["new@example.com"]
			Expect(stored).NotTo(BeNil())
			Expect(auth.VerifyPassword(stored.PasswordHash, "longenough")).To(Succeed())
		})

		It("rejects duplicate emails", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{Name: "x", Email: "agent@example.com", Password: "longenough"})
			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})

		It("rejects short passwords", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{Name: "x", Email: "a@b.ir", Password: "short"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("رمز عبور"))
		})
	})

	Describe("Me", func() {
		It("returns the current user", func() {
			user, err := service.Me(ctx, "u-agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("agent@example.com"))
		})

		It("returns not found for a deleted user", func() {
			_, err := service.Me(ctx, "gone")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})
})
