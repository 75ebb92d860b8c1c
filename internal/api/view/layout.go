// Package view renders the server-side HTML pages with gomponents.
package view

import (
	"github.com/s2cr/repair-desk/internal/api/flash"
	"github.com/s2cr/repair-desk/internal/core/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const appName = "S2CR"

// NavItem is one entry of the signed-in navigation bar.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Page holds what every page shares. Identity is nil on public pages.
type Page struct {
	Title    string
	Identity *domain.Identity
	Nav      []NavItem
	Flash    []flash.Message
	CSRF     string
}

func layout(p Page, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(p.Title+" | "+appName)),
		),
		Body(
			header(p),
			Main(
				Class("container"),
				flashes(p.Flash),
				H1(Text(p.Title)),
				Group(body),
			),
		),
	)
}

func header(p Page) Node {
	if p.Identity == nil || p.Identity.Principal == nil {
		return Header(Class("topbar"), Strong(Text(appName)))
	}

	nav := make([]Node, 0, len(p.Nav))
	for _, item := range p.Nav {
		nav = append(nav, A(Href(item.Href), If(item.Active, Class("active")), Text(item.Label)))
	}

	return Header(
		Class("topbar"),
		Strong(Text(appName)),
		Nav(Group(nav)),
		Div(
			Class("whoami"),
			Span(Text(p.Identity.Principal.Base().FullName()+" ("+p.Identity.Kind.Label()+")")),
			Form(
				Method("post"),
				Action("/auth/logout/"),
				csrfField(p.CSRF),
				Button(Type("submit"), Text("Log out")),
			),
		),
	)
}

func flashes(msgs []flash.Message) Node {
	if len(msgs) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(msgs))
	for _, m := range msgs {
		nodes = append(nodes, Div(Class("flash flash-"+string(m.Level)), Role("alert"), Text(m.Text)))
	}
	return Div(Class("flashes"), Group(nodes))
}

func csrfField(token string) Node {
	if token == "" {
		return nil
	}
	return Input(Type("hidden"), Name("csrf_token"), Value(token))
}

func field(label, name, typ, value string, required bool) Node {
	return Div(
		Class("field"),
		Label(For(name), Text(label)),
		Input(
			ID(name),
			Name(name),
			Type(typ),
			If(value != "", Value(value)),
			If(required, Required()),
		),
	)
}
