package schema

import (
	"errors"
	"fmt"
)

// ErrNoTypes indicates that the introspection document declares no types.
// A schema without types can never be valid GraphQL, so parsing stops.
var ErrNoTypes = errors.New("introspection document declares no types")

// ParseError reports a structural problem in an introspection document.
// It wraps a more specific cause such as ErrNoTypes.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse schema: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
