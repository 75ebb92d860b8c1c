package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
)

// LoginPath is where every guard rejection lands.
const LoginPath = "/auth/login/"

const identityKey = "identity"

// Guard admits a request only when its session cookie resolves to an active
// principal of one of kinds (any kind when empty). Rejections redirect to the
// login page with a flash message; the wrapped handler is never reached.
func Guard(guard ports.AccessGuard, cookie *SessionCookie, kinds ...domain.Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Read(c)

			id, err := guard.Enforce(c.Request().Context(), token, kinds...)
			if err != nil {
				var rej *domain.Rejection
				if !errors.As(err, &rej) {
					return err
				}
				level := flash.Error
				switch rej.Reason {
				case domain.ReasonNotLoggedIn:
					level = flash.Warning
					if token != "" {
						cookie.Clear(c)
					}
				case domain.ReasonSessionExpired:
					cookie.Clear(c)
				}
				flash.Set(c, level, rej.Message)
				return c.Redirect(http.StatusFound, LoginPath)
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Guard.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(identityKey).(*domain.Identity)
	return id, ok && id != nil
}
