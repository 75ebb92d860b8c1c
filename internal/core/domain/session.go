package domain

// Session is the server-held record a session token resolves to. It stores
// copies of the principal's identity and can go stale; callers re-validate
// against the credential store before trusting it.
type Session struct {
	PrincipalID int64
	Kind        Kind
	Email       string
}

// Identity is attached to a request once the access guard has authorised it.
type Identity struct {
	Principal Principal
	Kind      Kind
	Token     string
}
