package schema

import (
	"encoding/json"
	"fmt"
)

// document mirrors the top level of a standard introspection result.
type document struct {
	QueryType        *typeName    `json:"queryType"`
	MutationType     *typeName    `json:"mutationType"`
	SubscriptionType *typeName    `json:"subscriptionType"`
	Types            []*Type      `json:"types"`
	Directives       []*Directive `json:"directives"`
}

type typeName struct {
	Name string `json:"name"`
}

// ParseResult holds the parsed registries and root operation types of an
// introspection document.
type ParseResult struct {
	QueryType        *Type
	MutationType     *Type
	SubscriptionType *Type

	// Types maps type name to type. Shared read-only by all later
	// validation.
	Types map[string]*Type

	// Directives maps directive name to directive. Nil when the document
	// declares no directives at all, as opposed to an empty-but-present
	// registry.
	Directives map[string]*Directive
}

// Parse converts a raw introspection document into a ParseResult.
//
// The document must be the bare schema object, i.e. the value of the
// "__schema" key of an introspection response. Types are registered first
// and every TypeRef is resolved afterwards, so cyclic type graphs work.
func Parse(data []byte) (*ParseResult, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decode introspection document: %w", err)}
	}
	return parseDocument(&doc)
}

// ParseDocument is like Parse but takes an already-decoded document.
func ParseDocument(raw map[string]any) (*ParseResult, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("encode introspection document: %w", err)}
	}
	return Parse(data)
}

func parseDocument(doc *document) (*ParseResult, error) {
	registry, err := buildRegistry(doc.Types)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		QueryType:        lookupRoot(doc.QueryType, registry),
		MutationType:     lookupRoot(doc.MutationType, registry),
		SubscriptionType: lookupRoot(doc.SubscriptionType, registry),
		Types:            registry,
		Directives:       buildDirectives(doc.Directives),
	}, nil
}

// buildRegistry registers every named type, then runs the inference pass
// so all type references resolve.
func buildRegistry(types []*Type) (map[string]*Type, error) {
	registry := make(map[string]*Type, len(types))
	for _, t := range types {
		if t == nil || t.Name == "" {
			continue
		}
		t.buildIndex()
		registry[t.Name] = t
	}
	if len(registry) == 0 {
		return nil, &ParseError{Err: ErrNoTypes}
	}

	for _, t := range registry {
		t.inferTypes(registry)
	}
	return registry, nil
}

// lookupRoot resolves an optional root operation type by name. Servers are
// not required to expose mutation or subscription roots, so a missing name
// yields nil rather than an error.
func lookupRoot(name *typeName, registry map[string]*Type) *Type {
	if name == nil || name.Name == "" {
		return nil
	}
	return registry[name.Name]
}

func buildDirectives(directives []*Directive) map[string]*Directive {
	if len(directives) == 0 {
		return nil
	}
	registry := make(map[string]*Directive, len(directives))
	for _, d := range directives {
		if d != nil && d.Name != "" {
			registry[d.Name] = d
		}
	}
	return registry
}
