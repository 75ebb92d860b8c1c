package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"maragu.dev/gomponents"

	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/api/view"
	"github.com/s2cr/repair-desk/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Guard middleware. A
// missing identity means the route was registered without a guard.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	return id, nil
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

// publicPage consumes pending flash messages.
func publicPage(c echo.Context, title string) view.Page {
	return view.Page{Title: title, Flash: flash.Pop(c), CSRF: csrfToken(c)}
}

func memberPage(c echo.Context, title string, id *domain.Identity) view.Page {
	p := publicPage(c, title)
	p.Identity = id
	p.Nav = navFor(id.Kind, c.Path())
	return p
}

func render(c echo.Context, status int, node gomponents.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return node.Render(c.Response())
}
