package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// SDLProvider builds an introspection document from a GraphQL SDL source
// instead of a live server. Useful for tests and for clients that ship a
// schema snapshot.
type SDLProvider struct {
	// Source is the inline SDL text. Ignored when Path is set.
	Source string
	// Path is an optional file to read the SDL from.
	Path string
}

// Load parses the SDL and converts it into a standard introspection
// document so it goes through the same parsing path as a live schema.
func (p *SDLProvider) Load(context.Context) ([]byte, error) {
	source := p.Source
	if p.Path != "" {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		source = string(data)
	}

	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: source})
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	doc := documentFromAST(parsed)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode introspection document: %w", err)
	}
	return data, nil
}

// documentFromAST converts a gqlparser schema into the introspection
// document shape. Type order is sorted by name for determinism.
func documentFromAST(s *ast.Schema) *document {
	doc := &document{}
	if s.Query != nil {
		doc.QueryType = &typeName{Name: s.Query.Name}
	}
	if s.Mutation != nil {
		doc.MutationType = &typeName{Name: s.Mutation.Name}
	}
	if s.Subscription != nil {
		doc.SubscriptionType = &typeName{Name: s.Subscription.Name}
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Types = append(doc.Types, typeFromAST(s, s.Types[name]))
	}

	dirNames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	for _, name := range dirNames {
		doc.Directives = append(doc.Directives, directiveFromAST(s, s.Directives[name]))
	}
	return doc
}

func typeFromAST(s *ast.Schema, def *ast.Definition) *Type {
	t := &Type{
		Kind:        kindFromAST(def.Kind),
		Name:        def.Name,
		Description: def.Description,
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, f := range def.Fields {
			t.Fields = append(t.Fields, &Field{
				Name:        f.Name,
				Description: f.Description,
				Args:        inputValuesFromAST(s, f.Arguments),
				Type:        typeRefFromAST(s, f.Type),
			})
		}
		for _, name := range def.Interfaces {
			t.Interfaces = append(t.Interfaces, namedRef(s, name))
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, &InputValue{
				Name:        f.Name,
				Description: f.Description,
				Type:        typeRefFromAST(s, f.Type),
			})
		}
	case ast.Enum:
		for _, v := range def.EnumValues {
			t.EnumValues = append(t.EnumValues, &EnumValue{
				Name:        v.Name,
				Description: v.Description,
			})
		}
	case ast.Union:
		for _, name := range def.Types {
			t.PossibleTypes = append(t.PossibleTypes, namedRef(s, name))
		}
	}

	if def.Kind == ast.Interface {
		for _, impl := range s.PossibleTypes[def.Name] {
			t.PossibleTypes = append(t.PossibleTypes, namedRef(s, impl.Name))
		}
	}
	return t
}

func directiveFromAST(s *ast.Schema, def *ast.DirectiveDefinition) *Directive {
	locations := make([]string, 0, len(def.Locations))
	for _, loc := range def.Locations {
		locations = append(locations, string(loc))
	}
	return &Directive{
		Name:        def.Name,
		Description: def.Description,
		Locations:   locations,
		Args:        inputValuesFromAST(s, def.Arguments),
	}
}

func inputValuesFromAST(s *ast.Schema, args ast.ArgumentDefinitionList) []*InputValue {
	values := make([]*InputValue, 0, len(args))
	for _, a := range args {
		v := &InputValue{
			Name:        a.Name,
			Description: a.Description,
			Type:        typeRefFromAST(s, a.Type),
		}
		if a.DefaultValue != nil {
			v.DefaultValue = a.DefaultValue.String()
		}
		values = append(values, v)
	}
	return values
}

// typeRefFromAST converts gqlparser type notation into the kind-wrapped
// TypeRef chain introspection uses.
func typeRefFromAST(s *ast.Schema, t *ast.Type) *TypeRef {
	var ref *TypeRef
	if t.NamedType != "" {
		ref = namedRef(s, t.NamedType)
	} else {
		ref = &TypeRef{Kind: KindList, OfType: typeRefFromAST(s, t.Elem)}
	}
	if t.NonNull {
		ref = &TypeRef{Kind: KindNonNull, OfType: ref}
	}
	return ref
}

func namedRef(s *ast.Schema, name string) *TypeRef {
	kind := KindScalar
	if def, ok := s.Types[name]; ok {
		kind = kindFromAST(def.Kind)
	}
	return &TypeRef{Kind: kind, Name: name}
}

func kindFromAST(kind ast.DefinitionKind) Kind {
	switch kind {
	case ast.Object:
		return KindObject
	case ast.Interface:
		return KindInterface
	case ast.Union:
		return KindUnion
	case ast.Enum:
		return KindEnum
	case ast.InputObject:
		return KindInputObject
	default:
		return KindScalar
	}
}
