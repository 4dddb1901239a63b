package graphql

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// ErrNoValue is returned by DataAt when the path matches nothing.
var ErrNoValue = errors.New("no value at path")

// Error is a GraphQL execution error as reported by a server.
type Error struct {
	Message    string          `json:"message"`
	Locations  []ErrorLocation `json:"locations,omitempty"`
	Path       []any           `json:"path,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// ErrorLocation is a position in the query document, 1-indexed.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Response wraps a raw execution result. When the raw value is a mapping
// the data, errors and extensions fields are derived from it; for
// subscriptions the stream itself stands in for the response and these
// fields stay unset on the stream handle.
type Response struct {
	// Request is the request this response answers.
	Request *Request

	// Raw is the undecoded response value.
	Raw any

	// Data is the "data" member of the result, if present.
	Data any

	// Errors are the execution errors reported by the server.
	Errors []Error

	// Extensions carries protocol extensions, if any.
	Extensions map[string]any
}

// NewResponse builds a Response from a raw result value.
func NewResponse(request *Request, raw any) *Response {
	r := &Response{Request: request, Raw: raw}
	if m, ok := raw.(map[string]any); ok {
		r.Data = m["data"]
		r.Errors = decodeErrors(m["errors"])
		r.Extensions, _ = m["extensions"].(map[string]any)
	}
	return r
}

// HasErrors reports whether the server returned execution errors.
func (r *Response) HasErrors() bool {
	return len(r.Errors) > 0
}

// DataAt extracts a value from the response data by JSONPath, e.g.
// "hero.friends[0].name". Returns ErrNoValue when nothing matches.
func (r *Response) DataAt(path string) (any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	results := expr.Get(r.Data)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoValue, path)
	}
	return results[0], nil
}

// decodeErrors converts the raw "errors" member into typed errors. A
// malformed member is ignored rather than failing the whole response.
func decodeErrors(v any) []Error {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var errs []Error
	if err := json.Unmarshal(data, &errs); err != nil {
		return nil
	}
	return errs
}
