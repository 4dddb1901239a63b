package graphql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gqlwire/gqlwire/pkg/logging"
	"github.com/gqlwire/gqlwire/pkg/schema"
	"github.com/gqlwire/gqlwire/pkg/selection"
)

type operationKind string

const (
	opQuery        operationKind = "query"
	opMutation     operationKind = "mutation"
	opSubscription operationKind = "subscription"
)

// Client composes, validates and executes GraphQL operations against a
// schema. Construction loads and parses the schema once; the client is
// safe for concurrent use afterwards.
type Client struct {
	schema  *schema.Schema
	backend Backend
	plugins []Plugin
	logger  *slog.Logger
}

// ClientOption customizes client construction.
type ClientOption func(*clientConfig)

type clientConfig struct {
	provider schema.Provider
	plugins  []Plugin
	logger   *slog.Logger
}

// WithSchemaProvider overrides the schema source. By default the client
// introspects the backend itself.
func WithSchemaProvider(p schema.Provider) ClientOption {
	return func(c *clientConfig) { c.provider = p }
}

// WithPlugins appends plugins to the client's chain.
func WithPlugins(plugins ...Plugin) ClientOption {
	return func(c *clientConfig) { c.plugins = append(c.plugins, plugins...) }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// NewClient builds a client over the given backend. Unless a schema
// provider is supplied, the schema is loaded by running the standard
// introspection query through the backend.
func NewClient(ctx context.Context, backend Backend, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = &IntrospectionProvider{Backend: backend}
	}

	s, err := schema.Load(ctx, cfg.provider, cfg.logger)
	if err != nil {
		return nil, err
	}
	return &Client{
		schema:  s,
		backend: backend,
		plugins: cfg.plugins,
		logger:  cfg.logger,
	}, nil
}

// Schema returns the schema the client validates against.
func (c *Client) Schema() *schema.Schema { return c.schema }

// Option customizes one operation.
type Option func(*operation)

type operation struct {
	selection      []any
	variables      map[string]any
	operationName  string
	alias          string
	subscriptionID string
	connOptions    map[string]any
}

// WithSelection sets the field selection of the operation. Arguments
// follow the selection.Fields input forms.
func WithSelection(args ...any) Option {
	return func(o *operation) { o.selection = append(o.selection, args...) }
}

// WithVariables sets the operation variables. Variable names must match
// arguments declared on the operation field.
func WithVariables(vars map[string]any) Option {
	return func(o *operation) { o.variables = vars }
}

// WithOperationName overrides the operation name; it defaults to the
// field name.
func WithOperationName(name string) Option {
	return func(o *operation) { o.operationName = name }
}

// WithAlias aliases the operation field in the result.
func WithAlias(alias string) Option {
	return func(o *operation) { o.alias = alias }
}

// WithSubscriptionID fixes the subscription correlation id instead of
// letting the backend generate one.
func WithSubscriptionID(id string) Option {
	return func(o *operation) { o.subscriptionID = id }
}

// WithConnectionOptions sets the connection_init payload of a
// subscription handshake, e.g. auth tokens.
func WithConnectionOptions(options map[string]any) Option {
	return func(o *operation) { o.connOptions = options }
}

// Query builds, validates and executes a query on the named field of the
// root query type.
func (c *Client) Query(ctx context.Context, field string, opts ...Option) (*Response, error) {
	req, err := c.buildRequest(opQuery, field, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, req, c.backend.ExecuteQuery)
}

// Mutation builds, validates and executes a mutation.
func (c *Client) Mutation(ctx context.Context, field string, opts ...Option) (*Response, error) {
	req, err := c.buildRequest(opMutation, field, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, req, c.backend.ExecuteMutation)
}

// Subscription builds, validates and starts a subscription. The backend
// must implement SubscriptionBackend.
func (c *Client) Subscription(ctx context.Context, field string, opts ...Option) (Subscription, error) {
	sb, ok := c.backend.(SubscriptionBackend)
	if !ok {
		return nil, fmt.Errorf("backend %T does not support subscriptions", c.backend)
	}

	var op operation
	for _, opt := range opts {
		opt(&op)
	}
	req, err := c.buildOperation(opSubscription, field, &op)
	if err != nil {
		return nil, err
	}

	subReq := &SubscriptionRequest{
		Request:        *ApplyPre(c.plugins, req),
		SubscriptionID: op.subscriptionID,
		Options:        op.connOptions,
	}
	return sb.ExecuteSubscription(ctx, subReq)
}

// Execute sends an already-rendered request through the plugin chain and
// the backend's query path.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	return c.execute(ctx, req, c.backend.ExecuteQuery)
}

func (c *Client) execute(
	ctx context.Context,
	req *Request,
	send func(context.Context, *Request) (*Response, error),
) (*Response, error) {
	req = ApplyPre(c.plugins, req)
	resp, err := send(ctx, req)
	if err != nil {
		return nil, err
	}
	return ApplyPost(c.plugins, resp), nil
}

func (c *Client) buildRequest(kind operationKind, field string, opts []Option) (*Request, error) {
	var op operation
	for _, opt := range opts {
		opt(&op)
	}
	return c.buildOperation(kind, field, &op)
}

// buildOperation renders a full operation document for one root field:
//
//	query hero($id: ID!) { hero(id: $id) { name friends } }
//
// The field and its selection are validated against the schema before any
// network activity; variable declarations are derived from the schema
// field's argument types.
func (c *Client) buildOperation(kind operationKind, field string, op *operation) (*Request, error) {
	root, err := c.rootType(kind)
	if err != nil {
		return nil, err
	}

	var sub *selection.Set
	if len(op.selection) > 0 {
		sub, err = selection.Fields(op.selection...)
		if err != nil {
			return nil, err
		}
		if sub.Len() == 0 {
			sub = nil
		}
	}

	wrapper, err := selection.Fields(&selection.Field{
		Name:      field,
		Alias:     op.alias,
		SubFields: sub,
	})
	if err != nil {
		return nil, err
	}
	prepared, err := wrapper.Prepare(root, c.schema)
	if err != nil {
		return nil, err
	}
	opField := prepared.Fields[0]

	varNames := make([]string, 0, len(op.variables))
	for name := range op.variables {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)

	declarations := make([]string, 0, len(varNames))
	arguments := make([]string, 0, len(varNames))
	for _, name := range varNames {
		arg := opField.FieldType.Arg(name)
		if arg == nil {
			return nil, &selection.ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("no argument named %q", name),
			}
		}
		declarations = append(declarations, "$"+name+": "+arg.Type.String())
		arguments = append(arguments, name+": $"+name)
	}

	operationName := op.operationName
	if operationName == "" {
		operationName = field
	}

	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte(' ')
	b.WriteString(operationName)
	if len(declarations) > 0 {
		b.WriteString("(" + strings.Join(declarations, ", ") + ")")
	}
	b.WriteString(" { ")
	if opField.Alias != "" {
		b.WriteString(opField.Alias)
		b.WriteString(": ")
	}
	b.WriteString(field)
	if len(arguments) > 0 {
		b.WriteString("(" + strings.Join(arguments, ", ") + ")")
	}
	if opField.SubFields != nil && len(opField.SubFields.Fields) > 0 {
		b.WriteString(" { ")
		b.WriteString(opField.SubFields.Render())
		b.WriteString(" }")
	}
	b.WriteString(" }")

	c.logger.Debug("operation built", "kind", string(kind), "field", field)

	return &Request{
		Query:         b.String(),
		Variables:     op.variables,
		OperationName: operationName,
	}, nil
}

func (c *Client) rootType(kind operationKind) (*schema.Type, error) {
	var root *schema.Type
	switch kind {
	case opQuery:
		root = c.schema.QueryType()
	case opMutation:
		root = c.schema.MutationType()
	case opSubscription:
		root = c.schema.SubscriptionType()
	}
	if root == nil {
		return nil, fmt.Errorf("schema exposes no %s type", kind)
	}
	return root, nil
}
