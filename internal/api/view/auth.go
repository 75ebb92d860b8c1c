package view

import (
	"github.com/s2cr/repair-desk/internal/core/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// LoginForm is the login page model. Email and Kind echo the last attempt.
type LoginForm struct {
	Page
	Email string
	Kind  string
	Error string
}

func LoginPage(f LoginForm) Node {
	options := make([]Node, 0, len(domain.Kinds)+1)
	options = append(options, Option(Value(""), Text("I am a...")))
	for _, k := range domain.Kinds {
		options = append(options, Option(Value(k.String()), If(f.Kind == k.String(), Selected()), Text(k.Label())))
	}

	return layout(f.Page,
		If(f.Error != "", P(Class("error"), Role("alert"), Text(f.Error))),
		Form(
			Method("post"),
			Action("/auth/login/"),
			Class("auth-form"),
			csrfField(f.CSRF),
			field("Email", "email", "email", f.Email, true),
			field("Password", "password", "password", "", true),
			Div(
				Class("field"),
				Label(For("user_type"), Text("Account type")),
				Select(ID("user_type"), Name("user_type"), Required(), Group(options)),
			),
			Button(Type("submit"), Text("Log in")),
		),
		P(Text("No account yet? "), A(Href("/auth/register/"), Text("Register"))),
	)
}

// RegisterForm is the client registration page model. Passwords are never
// echoed back.
type RegisterForm struct {
	Page
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Address   string
	City      string
	Problems  []string
}

func RegisterPage(f RegisterForm) Node {
	var problems Node
	if len(f.Problems) > 0 {
		items := make([]Node, 0, len(f.Problems))
		for _, p := range f.Problems {
			items = append(items, Li(Text(p)))
		}
		problems = Ul(Class("error"), Role("alert"), Group(items))
	}

	return layout(f.Page,
		problems,
		Form(
			Method("post"),
			Action("/auth/register/"),
			Class("auth-form"),
			csrfField(f.CSRF),
			field("First name", "first_name", "text", f.FirstName, true),
			field("Last name", "last_name", "text", f.LastName, true),
			field("Email", "email", "email", f.Email, true),
			field("Mobile", "mobile", "tel", f.Mobile, false),
			field("Address", "address", "text", f.Address, false),
			field("City", "city", "text", f.City, false),
			field("Password", "password", "password", "", true),
			field("Confirm password", "password_confirm", "password", "", true),
			Button(Type("submit"), Text("Create my account")),
		),
		P(Text("Already registered? "), A(Href("/auth/login/"), Text("Log in"))),
	)
}
