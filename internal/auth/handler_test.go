package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAuthService struct {
	loginResult *auth.LoginResult
	err         error
	meID        string
}

func (s *stubAuthService) Login(ctx context.Context, dto auth.LoginDTO) (*auth.LoginResult, error) {
	return s.loginResult, s.err
}

func (s *stubAuthService) Register(ctx context.Context, dto auth.RegisterDTO) (*auth.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.User{ID: "u-new", Email: dto.Email, Role: auth.DefaultRole}, nil
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*auth.User, error) {
	s.meID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &auth.User{ID: userID, Email: "me@example.com"}, nil
}

func decodeEnvelope(rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("Handler", func() {
	var (
		svc     *stubAuthService
		handler *auth.Handler
	)

	BeforeEach(func() {
		svc = &stubAuthService{}
		handler = auth.NewHandler(svc, auth.CookieConfig{Secure: true})
	})

	Describe("Login", func() {
		It("sets an HttpOnly auth cookie and returns the token", func() {
			svc.loginResult = &auth.LoginResult{
				Token:     "a.b.c",
				ExpiresAt: time.Now().Add(time.Hour),
				User:      &auth.User{ID: "u1", Role: "ceo"},
			}
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.ir","password":"x"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			cookies := rec.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			Expect(cookies[0].Name).To(Equal("auth-token"))
			Expect(cookies[0].Value).To(Equal("a.b.c"))
			Expect(cookies[0].HttpOnly).To(BeTrue())
			Expect(cookies[0].Secure).To(BeTrue())

			body := decodeEnvelope(rec)
			Expect(body["success"]).To(BeTrue())
			Expect(body["data"]).To(HaveKeyWithValue("token", "a.b.c"))
		})

		It("returns 401 with a Persian message for bad credentials", func() {
			svc.err = internal.ErrInvalidCredentials
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.ir","password":"x"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			body := decodeEnvelope(rec)
			Expect(body["success"]).To(BeFalse())
			Expect(body["message"]).To(Equal("ایمیل یا رمز عبور اشتباه است"))
			Expect(rec.Result().Cookies()).To(BeEmpty())
		})

		It("returns 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("hides unexpected errors behind a generic 500", func() {
			svc.err = context.DeadlineExceeded
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.ir","password":"x"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeEnvelope(rec)["message"]).To(Equal(internal.MsgInternal))
		})
	})

	It("creates accounts with 201", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"n","email":"n@b.ir","password":"12345678"}`))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
	})

	It("expires the cookie on logout", func() {
		rec := httptest.NewRecorder()
		handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].MaxAge).To(BeNumerically("<", 0))
	})

	It("reads the caller from identity headers", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set(internal.HeaderUserID, "u-42")
		rec := httptest.NewRecorder()

		handler.Me(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.meID).To(Equal("u-42"))
	})
})
