package schema

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
)

// Schema is a parsed GraphQL schema. It is the validation context threaded
// through selection preparation and is immutable after construction.
type Schema struct {
	raw      []byte
	provider Provider

	query        *Type
	mutation     *Type
	subscription *Type
	types        map[string]*Type
	directives   map[string]*Directive
}

// New parses the raw introspection document and wraps the result. The
// provider is retained only for equality checks and re-introspection by
// callers; construction is the single place parsing happens.
func New(raw []byte, provider Provider) (*Schema, error) {
	result, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Schema{
		raw:          raw,
		provider:     provider,
		query:        result.QueryType,
		mutation:     result.MutationType,
		subscription: result.SubscriptionType,
		types:        result.Types,
		directives:   result.Directives,
	}, nil
}

// Load fetches the raw schema from the provider and parses it.
func Load(ctx context.Context, provider Provider, logger *slog.Logger) (*Schema, error) {
	raw, err := provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	s, err := New(raw, provider)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("schema introspected", "types", len(s.types), "directives", len(s.directives))
	}
	return s, nil
}

// Raw returns the raw introspection document the schema was parsed from.
func (s *Schema) Raw() []byte { return s.raw }

// Provider returns the provider the schema was loaded through, if any.
func (s *Schema) Provider() Provider { return s.provider }

// QueryType returns the root query type.
func (s *Schema) QueryType() *Type { return s.query }

// MutationType returns the root mutation type, or nil if the server does
// not expose one.
func (s *Schema) MutationType() *Type { return s.mutation }

// SubscriptionType returns the root subscription type, or nil if the
// server does not expose one.
func (s *Schema) SubscriptionType() *Type { return s.subscription }

// Type returns the named type, or nil if the schema does not declare it.
func (s *Schema) Type(name string) *Type { return s.types[name] }

// Types returns the type registry. Callers must treat it as read-only.
func (s *Schema) Types() map[string]*Type { return s.types }

// Directive returns the named directive, or nil.
func (s *Schema) Directive(name string) *Directive {
	if s.directives == nil {
		return nil
	}
	return s.directives[name]
}

// Directives returns the directive registry. It is nil when the schema
// declared no directives.
func (s *Schema) Directives() map[string]*Directive { return s.directives }

// Equal reports whether two schemas were built from the same raw document
// through the same provider.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.raw, other.raw) && s.provider == other.provider
}

// String returns a short description of the schema roots.
func (s *Schema) String() string {
	return fmt.Sprintf("Schema(query=%s, mutation=%s, subscription=%s)",
		s.query, s.mutation, s.subscription)
}
