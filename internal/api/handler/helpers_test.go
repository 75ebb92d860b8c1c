package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
)

const testToken = "aa11bb22cc33dd44ee55ff6600112233445566778899aabbccddeeff00112233"

type stubAuthService struct {
	authenticateFn func(ctx context.Context, email, password string, kind domain.Kind) (domain.Principal, error)
	registerFn     func(ctx context.Context, in ports.RegistrationInput) (*domain.Client, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string, kind domain.Kind) (domain.Principal, error) {
	return s.authenticateFn(ctx, email, password, kind)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Client, error) {
	return s.registerFn(ctx, in)
}

type stubSessions struct {
	created   []domain.Session
	destroyed []string
	createErr error
}

func (s *stubSessions) Create(_ context.Context, id int64, kind domain.Kind, email string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, domain.Session{PrincipalID: id, Kind: kind, Email: email})
	return testToken, nil
}

func (s *stubSessions) Read(context.Context, string) (*domain.Session, error) {
	return nil, nil
}

func (s *stubSessions) Destroy(_ context.Context, token string) error {
	s.destroyed = append(s.destroyed, token)
	return nil
}

type stubGuard struct {
	id  *domain.Identity
	err error
}

func (s *stubGuard) Enforce(context.Context, string, ...domain.Kind) (*domain.Identity, error) {
	return s.id, s.err
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newTestCookie() *middleware.SessionCookie {
	return middleware.NewSessionCookie("s2cr_session", "test-secret", false, time.Hour)
}

// sessionCookieFor makes the cookie a browser would hold after login.
func sessionCookieFor(t *testing.T, sc *middleware.SessionCookie, token string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, sc.Write(c, token))
	return rec.Result().Cookies()[0]
}

func newRequest(e *echo.Echo, method, target string, form url.Values, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			found = ck
		}
	}
	return found
}

func technician(id int64) *domain.Technician {
	return &domain.Technician{Account: domain.Account{ID: id, Email: "t@x.com", FirstName: "Moussa", LastName: "Sow", IsActive: true}}
}
