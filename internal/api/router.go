package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/api/handler"
	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
)

// Deps is everything the router needs; the caller owns their lifecycles.
type Deps struct {
	Auth     ports.AuthService
	Sessions ports.SessionService
	Guard    ports.AccessGuard
	Accounts ports.AccountAdmin
	Cookie   *middleware.SessionCookie
	Checks   map[string]handler.Check
	Logger   zerolog.Logger

	// Metrics receives the HTTP request collectors. Nil disables them; a
	// registerer accepts them only once per process.
	Metrics prometheus.Registerer

	// SecureCookies marks the CSRF and flash cookies Secure.
	SecureCookies bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	if d.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "s2cr",
			Subsystem:  "http",
			Registerer: d.Metrics,
		}))
	}
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:csrf_token",
		CookieName:     "s2cr_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(flash.Secure(d.SecureCookies))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Guard, d.Cookie, d.Logger)
	adminHandler := handler.NewAdminHandler(d.Accounts, d.Logger)
	healthHandler := handler.NewHealthHandler(d.Checks)

	guard := func(kinds ...domain.Kind) echo.MiddlewareFunc {
		return middleware.Guard(d.Guard, d.Cookie, kinds...)
	}

	// --- Auth routes ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	})
	e.GET("/auth/login/", authHandler.LoginForm)
	e.POST("/auth/login/", authHandler.Login)
	e.GET("/auth/register/", authHandler.RegisterForm)
	e.POST("/auth/register/", authHandler.Register)
	e.GET("/auth/logout/", authHandler.Logout)
	e.POST("/auth/logout/", authHandler.Logout)

	// --- Client area ---
	client := e.Group("/client", guard(domain.KindClient))
	client.GET("/dashboard/", handler.Placeholder("Client dashboard", "Your repair requests will appear here."))
	client.GET("/tickets/", handler.Placeholder("My tickets", "Ticket tracking is not available yet."))

	// --- Technician area ---
	tech := e.Group("/tech", guard(domain.KindTechnician))
	tech.GET("/dashboard/", handler.Placeholder("Technician dashboard", "Your assigned interventions will appear here."))
	tech.GET("/interventions/", handler.Placeholder("Interventions", "Intervention planning is not available yet."))

	// --- Administrator console ---
	admin := e.Group("/admin", guard(domain.KindAdministrator))
	admin.GET("/dashboard/", handler.Placeholder("Administration", "Manage accounts from the Users page."))
	admin.GET("/users/", adminHandler.Users)
	admin.POST("/users/:kind/:id/active", adminHandler.SetActive)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
