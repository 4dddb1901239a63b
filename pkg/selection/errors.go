package selection

import "fmt"

// TypeError reports a selection input value of an unsupported Go type.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot build selection from value of type %T", e.Value)
}

// ValidationError reports a selection that does not match the schema it
// was prepared against. It is raised before any network call is made.
type ValidationError struct {
	// Field and Type are set when a field name was not found on the
	// parent type.
	Field string
	Type  string

	// Directive is set when a directive name is unknown to the schema.
	Directive string

	// Reason covers structural problems such as a missing name.
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Directive != "":
		return fmt.Sprintf("no directive named %q in schema", e.Directive)
	case e.Field != "" && e.Type != "":
		return fmt.Sprintf("no field named %q on type %q", e.Field, e.Type)
	case e.Field != "":
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	default:
		return e.Reason
	}
}
