package view

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/s2cr/repair-desk/internal/core/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// PlaceholderPage renders a signed-in page whose content is not built yet.
func PlaceholderPage(p Page, intro string) Node {
	name := ""
	if p.Identity != nil && p.Identity.Principal != nil {
		name = p.Identity.Principal.Base().FirstName
	}
	return layout(p,
		If(name != "", P(Text("Hello "+name+"."))),
		P(Class("muted"), Text(intro)),
	)
}

// UserSection lists the principals of one kind on the administrator console.
type UserSection struct {
	Kind       domain.Kind
	Principals []domain.Principal
}

func UsersPage(p Page, sections []UserSection) Node {
	nodes := make([]Node, 0, len(sections))
	for _, s := range sections {
		nodes = append(nodes, userTable(p.CSRF, s))
	}
	return layout(p, Group(nodes))
}

func userTable(csrf string, s UserSection) Node {
	title := H2(Text(fmt.Sprintf("%s (%d)", s.Kind.Label(), len(s.Principals))))
	if len(s.Principals) == 0 {
		return Section(title, P(Class("muted"), Text("No accounts.")))
	}

	rows := make([]Node, 0, len(s.Principals))
	for _, pr := range s.Principals {
		acc := pr.Base()
		status, action, next := "active", "Deactivate", "false"
		if !acc.IsActive {
			status, action, next = "inactive", "Activate", "true"
		}
		lastLogin := "never"
		if acc.LastLogin != nil {
			lastLogin = acc.LastLogin.Format("2006-01-02 15:04")
		}
		rows = append(rows, Tr(
			Td(Text(strconv.FormatInt(acc.ID, 10))),
			Td(Text(acc.FullName())),
			Td(Text(acc.Email)),
			Td(Text(status)),
			Td(Text(lastLogin)),
			Td(Form(
				Method("post"),
				Action(fmt.Sprintf("/admin/users/%s/%d/active", s.Kind, acc.ID)),
				csrfField(csrf),
				Input(Type("hidden"), Name("active"), Value(next)),
				Button(Type("submit"), Text(action)),
			)),
		))
	}

	return Section(
		title,
		Table(
			THead(Tr(Th(Text("ID")), Th(Text("Name")), Th(Text("Email")), Th(Text("Status")), Th(Text("Last login")), Th())),
			TBody(Group(rows)),
		),
	)
}

// ErrorPage renders a standalone error page.
func ErrorPage(status int, message string) Node {
	return layout(
		Page{Title: strconv.Itoa(status) + " " + http.StatusText(status)},
		P(Text(message)),
		P(A(Href("/auth/login/"), Text("Back to login"))),
	)
}
