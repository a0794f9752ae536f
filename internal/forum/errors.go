package forum

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every gated operation. Handlers map these onto
// HTTP statuses; everything else is an upstream store failure and surfaces
// wrapped, never swallowed.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// upstream wraps a store failure with the operation that hit it.
func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
