package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/s2cr/repair-desk/internal/api/view"
)

// Placeholder serves a guarded page whose business content lives outside
// this service.
func Placeholder(title, intro string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ctxIdentity(c)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, view.PlaceholderPage(memberPage(c, title, id), intro))
	}
}
