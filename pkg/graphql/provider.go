package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gqlwire/gqlwire/pkg/schema"
)

// IntrospectionProvider loads a schema by running the standard
// introspection query through a query backend.
type IntrospectionProvider struct {
	Backend Backend
}

// Load implements schema.Provider.
func (p *IntrospectionProvider) Load(ctx context.Context) ([]byte, error) {
	if p.Backend == nil {
		return nil, fmt.Errorf("introspection provider has no backend")
	}

	resp, err := p.Backend.ExecuteQuery(ctx, &Request{
		Query:         schema.IntrospectionQuery,
		OperationName: "IntrospectionQuery",
	})
	if err != nil {
		return nil, fmt.Errorf("introspect schema: %w", err)
	}
	if resp.HasErrors() {
		return nil, fmt.Errorf("introspect schema: server returned %q", resp.Errors[0].Message)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("introspect schema: response has no data")
	}
	inner, ok := data["__schema"]
	if !ok {
		return nil, fmt.Errorf("introspect schema: response has no __schema")
	}
	return json.Marshal(inner)
}
