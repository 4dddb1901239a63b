package graphql

// Request carries one GraphQL operation to a backend.
type Request struct {
	// Query is the rendered GraphQL document text.
	Query string `json:"query"`
	// Variables are the variable values for the operation.
	Variables map[string]any `json:"variables,omitempty"`
	// OperationName selects the operation in multi-operation documents.
	OperationName string `json:"operationName,omitempty"`

	// Context and Root are opaque server-side execution carriers. The
	// library passes them through untouched; plugins may use them.
	Context any `json:"-"`
	Root    any `json:"-"`
}

// SubscriptionRequest is a Request plus the connection-level state a
// subscription handshake needs.
type SubscriptionRequest struct {
	Request

	// SubscriptionID correlates all frames of this subscription on a
	// shared connection. Generated by the backend when empty; must be
	// unique among concurrently open subscriptions.
	SubscriptionID string `json:"-"`

	// Options is the connection_init payload, e.g. auth headers sent at
	// handshake time.
	Options map[string]any `json:"-"`
}

// Payload returns the wire payload sent to a transport:
// {"query": ..., "operationName": ..., "variables": ...}.
func (r *Request) Payload() map[string]any {
	payload := map[string]any{
		"query":         r.Query,
		"operationName": nil,
		"variables":     map[string]any{},
	}
	if r.OperationName != "" {
		payload["operationName"] = r.OperationName
	}
	if r.Variables != nil {
		payload["variables"] = r.Variables
	}
	return payload
}
