package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlwire/gqlwire/pkg/schema"
)

// testSchema builds the Query{hero: Character}, Character{name, friends}
// schema used across the preparation tests.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]byte(`{
		"queryType": {"name": "Query"},
		"types": [
			{
				"kind": "OBJECT",
				"name": "Query",
				"fields": [
					{"name": "hero", "type": {"kind": "OBJECT", "name": "Character"}}
				]
			},
			{
				"kind": "OBJECT",
				"name": "Character",
				"fields": [
					{"name": "name", "type": {"kind": "SCALAR", "name": "String"}},
					{"name": "friends", "type": {"kind": "LIST", "ofType": {"kind": "OBJECT", "name": "Character"}}}
				]
			},
			{"kind": "SCALAR", "name": "String"},
			{"kind": "SCALAR", "name": "Boolean"}
		],
		"directives": [
			{"name": "include", "locations": ["FIELD"]},
			{"name": "skip", "locations": ["FIELD"]}
		]
	}`), nil)
	require.NoError(t, err)
	return s
}

func TestPrepareRendersNestedSelection(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(map[string]any{"hero": []string{"name", "friends"}})

	prepared, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)
	assert.Equal(t, "hero { name friends }", prepared.Render())
}

func TestPrepareResolvesSchemaLinks(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(map[string]any{"hero": "name"})

	prepared, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)

	hero := prepared.Fields[0]
	assert.Same(t, sch.QueryType(), hero.ParentType)
	assert.Same(t, sch.QueryType().Field("hero"), hero.FieldType)

	name := hero.SubFields.Fields[0]
	assert.Same(t, sch.Type("Character"), name.ParentType)
}

func TestPrepareUnknownFieldOnSubType(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(map[string]any{"hero": "nonexistent"})

	_, err := set.Prepare(sch.QueryType(), sch)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "nonexistent", vErr.Field)
	assert.Equal(t, "Character", vErr.Type)
	assert.Contains(t, err.Error(), "nonexistent")
	assert.Contains(t, err.Error(), "Character")
}

func TestPrepareUnknownRootField(t *testing.T) {
	sch := testSchema(t)
	set := MustFields("villain")

	_, err := set.Prepare(sch.QueryType(), sch)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "villain", vErr.Field)
	assert.Equal(t, "Query", vErr.Type)
}

func TestPrepareEmptyFieldName(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(Field{Name: ""})

	// An empty name sneaks past construction only via an explicit Field
	// value; preparation still rejects it.
	require.Equal(t, 1, set.Len())
	_, err := set.Prepare(sch.QueryType(), sch)
	require.Error(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestPrepareDirective(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(Field{Name: "hero", Directive: &Directive{Name: "include"}, SubFields: MustFields("name")})

	prepared, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)
	assert.Equal(t, "hero @include { name }", prepared.Render())
	assert.Same(t, sch.Directive("include"), prepared.Fields[0].Directive.SchemaDirective)
}

func TestPrepareUnknownDirective(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(Field{Name: "hero", Directive: &Directive{Name: "uppercase"}})

	_, err := set.Prepare(sch.QueryType(), sch)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "uppercase", vErr.Directive)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestPrepareAlias(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(Field{Name: "hero", Alias: "mainHero", SubFields: MustFields("name")})

	prepared, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)
	assert.Equal(t, "mainHero: hero { name }", prepared.Render())
}

func TestPrepareRenderingIsIdempotent(t *testing.T) {
	sch := testSchema(t)
	set := MustFields(map[string]any{"hero": []string{"name", "friends"}})

	first, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)
	second, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)

	assert.Equal(t, first.Render(), second.Render())
}

func TestPrepareSubSelectionOnScalarLeafFails(t *testing.T) {
	sch := testSchema(t)

	// Selecting a sub-field on a scalar is rejected because String has no
	// fields, not because scalars are special-cased.
	set := MustFields(map[string]any{"hero": map[string]any{"name": "length"}})

	_, err := set.Prepare(sch.QueryType(), sch)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "length", vErr.Field)
	assert.Equal(t, "String", vErr.Type)
}

func TestPrepareDeepRecursion(t *testing.T) {
	sch := testSchema(t)

	// friends: [Character] cycles back, so the same selection can nest.
	set := MustFields(map[string]any{
		"hero": map[string]any{
			"friends": map[string]any{
				"friends": []string{"name"},
			},
		},
	})

	prepared, err := set.Prepare(sch.QueryType(), sch)
	require.NoError(t, err)
	assert.Equal(t, "hero { friends { friends { name } } }", prepared.Render())
}
