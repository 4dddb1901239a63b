package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gqlwire/gqlwire/pkg/graphql"
	"github.com/gqlwire/gqlwire/pkg/logging"
)

// Backend executes queries and mutations over HTTP POST and
// subscriptions over a websocket. It implements graphql.Backend and
// graphql.SubscriptionBackend.
type Backend struct {
	endpoint     string
	wsEndpoint   string
	subprotocols []string
	headers      http.Header

	httpClient *http.Client
	dialer     Dialer
	codec      graphql.Codec
	registry   *Registry
	logger     *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithHTTPClient sets the HTTP client used for queries and mutations.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Backend) { b.httpClient = client }
}

// WithWSEndpoint sets the websocket URL used for subscriptions. It
// defaults to the HTTP endpoint.
func WithWSEndpoint(endpoint string) Option {
	return func(b *Backend) { b.wsEndpoint = endpoint }
}

// WithSubprotocols sets the subscription protocols offered during the
// websocket handshake, in preference order.
func WithSubprotocols(subprotocols ...string) Option {
	return func(b *Backend) { b.subprotocols = subprotocols }
}

// WithHeaders adds headers to every HTTP request and to the websocket
// handshake.
func WithHeaders(headers http.Header) Option {
	return func(b *Backend) { b.headers = headers }
}

// WithDialer overrides the websocket dialer.
func WithDialer(dialer Dialer) Option {
	return func(b *Backend) { b.dialer = dialer }
}

// WithCodec overrides the wire codec.
func WithCodec(codec graphql.Codec) Option {
	return func(b *Backend) { b.codec = codec }
}

// WithTransportLogger sets the logger.
func WithTransportLogger(logger *slog.Logger) Option {
	return func(b *Backend) { b.logger = logger }
}

// NewBackend creates a backend for the given HTTP endpoint.
func NewBackend(endpoint string, opts ...Option) *Backend {
	b := &Backend{
		endpoint:     endpoint,
		subprotocols: []string{ProtocolGraphQLTransportWS, ProtocolGraphQLWS},
		httpClient:   http.DefaultClient,
		dialer:       DialWebsocket,
		codec:        graphql.JSONCodec{},
		registry:     NewRegistry(),
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.wsEndpoint == "" {
		b.wsEndpoint = b.endpoint
	}
	b.logger = logging.Component(b.logger, "transport")
	return b
}

// FromSettings creates a backend from client settings.
func FromSettings(s *graphql.Settings, opts ...Option) (*Backend, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	headers := make(http.Header, len(s.Headers))
	for k, v := range s.Headers {
		headers.Set(k, v)
	}
	client := http.DefaultClient
	if s.Timeout > 0 {
		client = &http.Client{Timeout: s.Timeout}
	}
	base := []Option{
		WithWSEndpoint(s.WSEndpoint),
		WithHeaders(headers),
		WithHTTPClient(client),
	}
	if len(s.Subprotocols) > 0 {
		base = append(base, WithSubprotocols(s.Subprotocols...))
	}
	return NewBackend(s.Endpoint, append(base, opts...)...), nil
}

// Endpoint returns the HTTP endpoint the backend posts to.
func (b *Backend) Endpoint() string { return b.endpoint }

// Registry returns the live-subscription registry.
func (b *Backend) Registry() *Registry { return b.registry }

// ExecuteQuery posts the request payload and decodes the result.
func (b *Backend) ExecuteQuery(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
	return b.post(ctx, req)
}

// ExecuteMutation posts the request payload and decodes the result.
func (b *Backend) ExecuteMutation(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
	return b.post(ctx, req)
}

func (b *Backend) post(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
	body, err := b.codec.Marshal(req.Payload())
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range b.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	b.logger.Debug("executed operation",
		"operation", req.OperationName,
		"status", httpResp.StatusCode,
		"duration", time.Since(start))

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, bytes.TrimSpace(data))
	}

	var raw any
	if err := b.codec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return graphql.NewResponse(req, raw), nil
}

// ExecuteSubscription dials the websocket endpoint, performs the
// connection_init/connection_ack handshake, sends the start frame and
// returns the live stream. A handshake reply other than connection_ack
// aborts with ErrConnectionRejected: no start frame is sent and nothing
// is registered.
func (b *Backend) ExecuteSubscription(ctx context.Context, req *graphql.SubscriptionRequest) (graphql.Subscription, error) {
	conn, protocol, err := b.dialer(ctx, b.wsEndpoint, b.subprotocols, b.headers)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", b.wsEndpoint, err)
	}

	if err := b.handshake(ctx, conn, req.Options); err != nil {
		_ = conn.Close("handshake failed")
		return nil, err
	}

	id := req.SubscriptionID
	if id == "" {
		id = uuid.NewString()
	}

	startType := msgTypeStart
	if protocol == ProtocolGraphQLTransportWS {
		startType = msgTypeSubscribe
	}
	payload, err := b.codec.Marshal(req.Payload())
	if err != nil {
		_ = conn.Close("encode failed")
		return nil, fmt.Errorf("encode subscription payload: %w", err)
	}
	start, err := b.codec.Marshal(&message{ID: id, Type: startType, Payload: payload})
	if err != nil {
		_ = conn.Close("encode failed")
		return nil, fmt.Errorf("encode start frame: %w", err)
	}
	if err := conn.Send(ctx, start); err != nil {
		_ = conn.Close("start failed")
		return nil, fmt.Errorf("send start frame: %w", err)
	}

	b.logger.Debug("subscription started", "id", id, "protocol", protocol)

	stream := &Stream{
		id:       id,
		request:  req,
		conn:     conn,
		protocol: protocol,
		codec:    b.codec,
		registry: b.registry,
		logger:   b.logger,
	}
	b.registry.add(stream)
	return stream, nil
}

// handshake sends connection_init and blocks for exactly one reply.
func (b *Backend) handshake(ctx context.Context, conn Conn, options map[string]any) error {
	init := &message{Type: msgTypeConnectionInit}
	if len(options) > 0 {
		payload, err := b.codec.Marshal(options)
		if err != nil {
			return fmt.Errorf("encode connection options: %w", err)
		}
		init.Payload = payload
	}
	data, err := b.codec.Marshal(init)
	if err != nil {
		return fmt.Errorf("encode init frame: %w", err)
	}
	if err := conn.Send(ctx, data); err != nil {
		return fmt.Errorf("send init frame: %w", err)
	}

	reply, err := conn.Receive(ctx)
	if err != nil {
		return fmt.Errorf("await ack: %w", err)
	}
	var msg message
	if err := b.codec.Unmarshal(reply, &msg); err != nil {
		return &ProtocolViolationError{Got: "undecodable handshake reply", Err: err}
	}
	if msg.Type != msgTypeConnectionAck {
		return fmt.Errorf("%w: got %q", ErrConnectionRejected, msg.Type)
	}
	return nil
}

// Close ends every live subscription.
func (b *Backend) Close(ctx context.Context) error {
	return b.registry.CloseAll(ctx)
}
