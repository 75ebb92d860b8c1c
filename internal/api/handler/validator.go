package handler

import (
	"github.com/s2cr/repair-desk/internal/core/validation"
)

// echoValidator adapts the shared validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
