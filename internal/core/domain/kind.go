package domain

import "strings"

// Kind discriminates the three principal namespaces. The string values are the
// ones submitted by the login form and stored in sessions.
type Kind string

const (
	KindClient        Kind = "client"
	KindTechnician    Kind = "technicien"
	KindAdministrator Kind = "administrateur"
)

// Kinds lists every recognised kind in display order.
var Kinds = []Kind{KindClient, KindTechnician, KindAdministrator}

// ParseKind returns the Kind matching s, or ErrUnknownKind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Valid reports whether k is one of the recognised kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClient, KindTechnician, KindAdministrator:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Label is the human-facing name used in pages and messages.
func (k Kind) Label() string {
	switch k {
	case KindClient:
		return "client"
	case KindTechnician:
		return "technician"
	case KindAdministrator:
		return "administrator"
	}
	return "unknown"
}
