package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// SecureHeaders sets browser hardening headers. HSTS and SSL redirect stay off in development.
func SecureHeaders(env string) func(http.Handler) http.Handler {
	dev := env != "production"
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         dev,
	})
	return s.Handler
}

// RateLimit limits requests per client IP over a one minute window with a Persian 429 envelope.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 300
	}
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"message":"تعداد درخواست‌ها بیش از حد مجاز است. لطفاً کمی بعد تلاش کنید"}`))
		}),
	)
}
