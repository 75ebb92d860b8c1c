package domain

import (
	"strings"
	"time"
)

// Account holds the identity fields shared by every principal kind.
type Account struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	Address      string     `json:"address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Base returns the shared account fields.
func (a *Account) Base() *Account { return a }

// FullName falls back to the email when no name was recorded.
func (a *Account) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// Principal is any authenticated actor. The concrete type is one of *Client,
// *Technician or *Administrator, selected by Kind.
type Principal interface {
	Kind() Kind
	Base() *Account
}

// Client reports breakdowns. Every client belongs to an owning administrator.
type Client struct {
	Account
	AdminID int64  `json:"admin_id"`
	City    string `json:"city,omitempty"`
}

func (*Client) Kind() Kind { return KindClient }

// Technician performs interventions.
type Technician struct {
	Account
	AdminID   int64  `json:"admin_id"`
	City      string `json:"city,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

func (*Technician) Kind() Kind { return KindTechnician }

// Administrator triages reports and owns client and technician records.
type Administrator struct {
	Account
}

func (*Administrator) Kind() Kind { return KindAdministrator }

// PrincipalFields carries the optional, kind-specific attributes accepted when a
// principal is created. Fields that do not apply to the target kind are ignored.
type PrincipalFields struct {
	FirstName string
	LastName  string
	Mobile    string
	Address   string
	City      string
	Specialty string
	AdminID   int64
}

// NewPrincipal builds an empty record of the given kind populated from fields.
// The caller sets the email, password hash and timestamps.
func NewPrincipal(kind Kind, fields PrincipalFields) (Principal, error) {
	acct := Account{
		IsActive:  true,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Mobile:    fields.Mobile,
		Address:   fields.Address,
	}
	switch kind {
	case KindClient:
		return &Client{Account: acct, AdminID: fields.AdminID, City: fields.City}, nil
	case KindTechnician:
		return &Technician{Account: acct, AdminID: fields.AdminID, City: fields.City, Specialty: fields.Specialty}, nil
	case KindAdministrator:
		return &Administrator{Account: acct}, nil
	}
	return nil, ErrUnknownKind
}

// Clone returns a deep copy of p so stores never hand out shared pointers.
func Clone(p Principal) Principal {
	if p == nil {
		return nil
	}
	var out Principal
	switch v := p.(type) {
	case *Client:
		c := *v
		out = &c
	case *Technician:
		t := *v
		out = &t
	case *Administrator:
		a := *v
		out = &a
	default:
		return p
	}
	if ll := p.Base().LastLogin; ll != nil {
		t := *ll
		out.Base().LastLogin = &t
	}
	return out
}
