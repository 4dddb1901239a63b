package graphql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlwire/gqlwire/pkg/schema"
	"github.com/gqlwire/gqlwire/pkg/selection"
)

const clientTestSDL = `
type Query {
	hero(id: ID!): Character
}

type Mutation {
	rename(id: ID!, name: String!): Character
}

type Subscription {
	heroUpdated: Character
}

type Character {
	id: ID!
	name: String!
	friends: [Character]
}
`

// stubBackend records the last request and returns a canned raw result.
type stubBackend struct {
	lastQuery    *Request
	lastMutation *Request
	result       map[string]any
}

func (b *stubBackend) ExecuteQuery(_ context.Context, req *Request) (*Response, error) {
	b.lastQuery = req
	return NewResponse(req, b.result), nil
}

func (b *stubBackend) ExecuteMutation(_ context.Context, req *Request) (*Response, error) {
	b.lastMutation = req
	return NewResponse(req, b.result), nil
}

func newTestClient(t *testing.T, backend Backend, opts ...ClientOption) *Client {
	t.Helper()
	opts = append(opts, WithSchemaProvider(&schema.SDLProvider{Source: clientTestSDL}))
	client, err := NewClient(context.Background(), backend, opts...)
	require.NoError(t, err)
	return client
}

func TestClientQueryDocument(t *testing.T) {
	backend := &stubBackend{result: map[string]any{"data": map[string]any{}}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithSelection("name", "friends"),
	)
	require.NoError(t, err)
	require.NotNil(t, backend.lastQuery)
	assert.Equal(t, "query hero { hero { name friends } }", backend.lastQuery.Query)
	assert.Equal(t, "hero", backend.lastQuery.OperationName)
}

func TestClientQueryWithVariables(t *testing.T) {
	backend := &stubBackend{result: map[string]any{"data": map[string]any{}}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithSelection(map[string]any{"friends": "name"}),
		WithVariables(map[string]any{"id": "1000"}),
	)
	require.NoError(t, err)
	assert.Equal(t,
		"query hero($id: ID!) { hero(id: $id) { friends { name } } }",
		backend.lastQuery.Query)
	assert.Equal(t, map[string]any{"id": "1000"}, backend.lastQuery.Variables)
}

func TestClientQueryUnknownVariable(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithVariables(map[string]any{"bogus": 1}),
	)
	require.Error(t, err)

	var vErr *selection.ValidationError
	assert.ErrorAs(t, err, &vErr)
	// Validation failures never reach the backend.
	assert.Nil(t, backend.lastQuery)
}

func TestClientQueryUnknownField(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "villain")
	require.Error(t, err)

	var vErr *selection.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "villain", vErr.Field)
	assert.Equal(t, "Query", vErr.Type)
	assert.Nil(t, backend.lastQuery)
}

func TestClientQueryInvalidSubSelection(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithSelection("nonexistent"),
	)
	require.Error(t, err)

	var vErr *selection.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "nonexistent", vErr.Field)
	assert.Equal(t, "Character", vErr.Type)
}

func TestClientQueryAliasAndOperationName(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithSelection("name"),
		WithAlias("mainHero"),
		WithOperationName("FetchHero"),
	)
	require.NoError(t, err)
	assert.Equal(t,
		"query FetchHero { mainHero: hero { name } }",
		backend.lastQuery.Query)
	assert.Equal(t, "FetchHero", backend.lastQuery.OperationName)
}

func TestClientMutationDocument(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Mutation(context.Background(), "rename",
		WithSelection("id", "name"),
		WithVariables(map[string]any{"id": "1000", "name": "Artoo"}),
	)
	require.NoError(t, err)
	require.NotNil(t, backend.lastMutation)
	assert.Equal(t,
		"mutation rename($id: ID!, $name: String!) { rename(id: $id, name: $name) { id name } }",
		backend.lastMutation.Query)
}

func TestClientSubscriptionRequiresCapableBackend(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Subscription(context.Background(), "heroUpdated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support subscriptions")
}

func TestClientPluginsWrapExecution(t *testing.T) {
	var log []string
	backend := &stubBackend{result: map[string]any{"data": map[string]any{}}}
	client := newTestClient(t, backend,
		WithPlugins(&recordingPlugin{name: "p", log: &log}),
	)

	_, err := client.Query(context.Background(), "hero", WithSelection("name"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p:pre", "p:post"}, log)
	// The backend saw the plugin-mutated request.
	assert.Equal(t, "hero+p", backend.lastQuery.OperationName)
}

func TestClientDocumentIsDeterministic(t *testing.T) {
	backend := &stubBackend{result: map[string]any{}}
	client := newTestClient(t, backend)

	_, err := client.Query(context.Background(), "hero",
		WithSelection(map[string]any{"name": nil, "friends": nil, "id": nil}),
	)
	require.NoError(t, err)
	first := backend.lastQuery.Query

	for range 5 {
		_, err = client.Query(context.Background(), "hero",
			WithSelection(map[string]any{"name": nil, "friends": nil, "id": nil}),
		)
		require.NoError(t, err)
		assert.Equal(t, first, backend.lastQuery.Query)
	}
}

func TestClientExecuteRawRequest(t *testing.T) {
	backend := &stubBackend{result: map[string]any{"data": map[string]any{"ok": true}}}
	client := newTestClient(t, backend)

	resp, err := client.Execute(context.Background(), &Request{Query: "{ __typename }"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, resp.Data)
}

func TestIntrospectionProviderUnwraps(t *testing.T) {
	backend := &stubBackend{result: map[string]any{
		"data": map[string]any{
			"__schema": map[string]any{
				"queryType": map[string]any{"name": "Query"},
				"types": []any{
					map[string]any{"kind": "OBJECT", "name": "Query", "fields": []any{
						map[string]any{"name": "ok", "type": map[string]any{"kind": "SCALAR", "name": "Boolean"}},
					}},
					map[string]any{"kind": "SCALAR", "name": "Boolean"},
				},
			},
		},
	}}

	client, err := NewClient(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, "Query", client.Schema().QueryType().Name)
	// The introspection query itself went through the backend.
	require.NotNil(t, backend.lastQuery)
	assert.Equal(t, "IntrospectionQuery", backend.lastQuery.OperationName)
}

func TestIntrospectionProviderServerError(t *testing.T) {
	backend := &stubBackend{result: map[string]any{
		"errors": []any{map[string]any{"message": "introspection disabled"}},
	}}

	_, err := NewClient(context.Background(), backend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introspection disabled")
}
