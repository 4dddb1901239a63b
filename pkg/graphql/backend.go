package graphql

import (
	"context"
	"encoding/json"
)

// Codec is the pluggable JSON encoding used for wire payloads.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec backed by encoding/json.
type JSONCodec struct{}

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Backend executes queries and mutations. The core depends only on this
// shape, not on any particular transport.
type Backend interface {
	ExecuteQuery(ctx context.Context, req *Request) (*Response, error)
	ExecuteMutation(ctx context.Context, req *Request) (*Response, error)
}

// SubscriptionBackend is implemented by backends that can open streaming
// subscriptions over a duplex connection.
type SubscriptionBackend interface {
	ExecuteSubscription(ctx context.Context, req *SubscriptionRequest) (Subscription, error)
}

// Subscription is a lazy, single-pass stream of responses. Once the
// stream ends, naturally or via Close, it cannot be iterated again; a new
// subscription must be started for further data.
type Subscription interface {
	// ID returns the subscription correlation id.
	ID() string

	// Recv blocks for the next response. It returns io.EOF after a clean
	// server-initiated end and a *transport-specific error on protocol
	// violations.
	Recv(ctx context.Context) (*Response, error)

	// Close ends the subscription: it sends the stop control frame, then
	// closes the underlying connection. Safe to call on an
	// already-ended stream.
	Close(ctx context.Context) error
}
