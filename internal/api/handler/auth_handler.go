package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/api/view"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
)

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
	guard    ports.AccessGuard
	cookie   *middleware.SessionCookie
	logger   zerolog.Logger
}

func NewAuthHandler(
	auth ports.AuthService,
	sessions ports.SessionService,
	guard ports.AccessGuard,
	cookie *middleware.SessionCookie,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, guard: guard, cookie: cookie, logger: logger}
}

type loginRequest struct {
	Email    string `form:"email" validate:"required" label:"email"`
	Password string `form:"password" validate:"required" label:"password"`
	UserType string `form:"user_type" validate:"required" label:"account type"`
}

type registerRequest struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
	Mobile          string `form:"mobile"`
	Address         string `form:"address"`
	City            string `form:"city"`
}

// LoginForm serves GET /auth/login/. A visitor who already holds a valid
// session goes straight to their dashboard.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if token := h.cookie.Read(c); token != "" {
		id, err := h.guard.Enforce(c.Request().Context(), token)
		if err == nil {
			return c.Redirect(http.StatusFound, DashboardPath(id.Kind))
		}
		var rej *domain.Rejection
		if !errors.As(err, &rej) {
			return err
		}
		h.cookie.Clear(c)
		if rej.Reason == domain.ReasonSessionExpired {
			flash.Set(c, flash.Error, rej.Message)
		}
	}
	return render(c, http.StatusOK, view.LoginPage(view.LoginForm{Page: publicPage(c, "Log in")}))
}

// Login serves POST /auth/login/. Failures re-render the form with the
// generic message; success rotates the session and redirects.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	kind := strings.TrimSpace(req.UserType)
	fail := func(msg string) error {
		return render(c, http.StatusOK, view.LoginPage(view.LoginForm{
			Page:  publicPage(c, "Log in"),
			Email: strings.TrimSpace(req.Email),
			Kind:  kind,
			Error: msg,
		}))
	}

	if err := c.Validate(&req); err != nil {
		return fail("please fill in every field")
	}

	ctx := c.Request().Context()
	p, err := h.auth.Authenticate(ctx, req.Email, req.Password, domain.Kind(kind))
	switch {
	case errors.Is(err, domain.ErrAuthFailure), errors.Is(err, domain.ErrTooManyAttempts):
		return fail(err.Error())
	case err != nil:
		return err
	}

	if old := h.cookie.Read(c); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			h.logger.Warn().Err(err).Msg("failed to destroy previous session")
		}
	}

	acc := p.Base()
	token, err := h.sessions.Create(ctx, acc.ID, p.Kind(), acc.Email)
	if err != nil {
		return err
	}
	if err := h.cookie.Write(c, token); err != nil {
		return err
	}

	flash.Set(c, flash.Success, "Welcome "+acc.FullName()+"!")
	return c.Redirect(http.StatusFound, DashboardPath(p.Kind()))
}

// RegisterForm serves GET /auth/register/.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, http.StatusOK, view.RegisterPage(view.RegisterForm{Page: publicPage(c, "Create an account")}))
}

// Register serves POST /auth/register/. Every problem is reported at once and
// the submitted values, passwords excluded, are kept in the form.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.auth.Register(c.Request().Context(), ports.RegistrationInput{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Mobile:          strings.TrimSpace(req.Mobile),
		Address:         strings.TrimSpace(req.Address),
		City:            strings.TrimSpace(req.City),
	})

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return render(c, http.StatusOK, view.RegisterPage(view.RegisterForm{
			Page:      publicPage(c, "Create an account"),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Mobile:    req.Mobile,
			Address:   req.Address,
			City:      req.City,
			Problems:  ve.Problems,
		}))
	case err != nil:
		return err
	}

	flash.Set(c, flash.Success, "Registration succeeded, you can now log in.")
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Logout serves /auth/logout/. It always succeeds from the visitor's point of
// view, even without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := h.cookie.Read(c); token != "" {
		if err := h.sessions.Destroy(c.Request().Context(), token); err != nil {
			h.logger.Error().Err(err).Msg("failed to destroy session on logout")
		}
	}
	h.cookie.Clear(c)

	flash.Set(c, flash.Info, "You have been logged out.")
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}
