package handler

import (
	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/api/view"
	"github.com/s2cr/repair-desk/internal/core/domain"
)

var dashboards = map[domain.Kind]string{
	domain.KindClient:        "/client/dashboard/",
	domain.KindTechnician:    "/tech/dashboard/",
	domain.KindAdministrator: "/admin/dashboard/",
}

var menus = map[domain.Kind][]view.NavItem{
	domain.KindClient: {
		{Label: "Dashboard", Href: "/client/dashboard/"},
		{Label: "My tickets", Href: "/client/tickets/"},
	},
	domain.KindTechnician: {
		{Label: "Dashboard", Href: "/tech/dashboard/"},
		{Label: "Interventions", Href: "/tech/interventions/"},
	},
	domain.KindAdministrator: {
		{Label: "Dashboard", Href: "/admin/dashboard/"},
		{Label: "Users", Href: "/admin/users/"},
	},
}

// DashboardPath is the landing page for kind, or the login page for an
// unknown kind.
func DashboardPath(kind domain.Kind) string {
	if p, ok := dashboards[kind]; ok {
		return p
	}
	return middleware.LoginPath
}

func navFor(kind domain.Kind, current string) []view.NavItem {
	items := make([]view.NavItem, len(menus[kind]))
	for i, item := range menus[kind] {
		item.Active = item.Href == current
		items[i] = item
	}
	return items
}
