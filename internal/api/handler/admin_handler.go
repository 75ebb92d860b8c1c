package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/api/view"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
)

const usersPath = "/admin/users/"

// managedKinds are the kinds an administrator can activate or deactivate.
var managedKinds = []domain.Kind{domain.KindClient, domain.KindTechnician}

type AdminHandler struct {
	accounts ports.AccountAdmin
	logger   zerolog.Logger
}

func NewAdminHandler(accounts ports.AccountAdmin, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, logger: logger}
}

// Users serves GET /admin/users/.
func (h *AdminHandler) Users(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	sections := make([]view.UserSection, 0, len(managedKinds))
	for _, kind := range managedKinds {
		list, err := h.accounts.List(c.Request().Context(), kind)
		if err != nil {
			return err
		}
		sections = append(sections, view.UserSection{Kind: kind, Principals: list})
	}

	return render(c, http.StatusOK, view.UsersPage(memberPage(c, "Users", id), sections))
}

// SetActive serves POST /admin/users/:kind/:id/active.
func (h *AdminHandler) SetActive(c echo.Context) error {
	admin, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil || kind == domain.KindAdministrator {
		return echo.NewHTTPError(http.StatusNotFound, "unknown account kind")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusNotFound, "unknown account")
	}
	active, err := strconv.ParseBool(c.FormValue("active"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "active must be true or false")
	}

	if err := h.accounts.SetActive(c.Request().Context(), kind, id, active); err != nil {
		return err
	}

	h.logger.Info().
		Int64("admin_id", admin.Principal.Base().ID).
		Str("kind", kind.String()).
		Int64("principal_id", id).
		Bool("active", active).
		Msg("account status changed by administrator")

	state := "deactivated"
	if active {
		state = "activated"
	}
	flash.Set(c, flash.Success, fmt.Sprintf("%s #%d %s.", kind.Label(), id, state))
	return c.Redirect(http.StatusFound, usersPath)
}
