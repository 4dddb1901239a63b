package selection

import (
	"sort"
	"strings"
)

// Directive is an @name annotation attached to a field. It carries no
// schema reference; existence is checked during preparation.
type Directive struct {
	Name string
}

// Field is one entry of a selection set. Identity is structural: two
// fields with the same alias, name, directive and sub-selection are one.
type Field struct {
	Name      string
	Alias     string
	Directive *Directive
	SubFields *Set
}

// key computes the structural identity of the field.
func (f *Field) key() string {
	var b strings.Builder
	b.WriteString(f.Alias)
	b.WriteByte(':')
	b.WriteString(f.Name)
	if f.Directive != nil {
		b.WriteByte('@')
		b.WriteString(f.Directive.Name)
	}
	if f.SubFields != nil && f.SubFields.Len() > 0 {
		b.WriteByte('{')
		b.WriteString(f.SubFields.key())
		b.WriteByte('}')
	}
	return b.String()
}

// Set is an ordered selection of fields, deduplicated by structural
// identity. The zero value is not usable; build Sets with Fields or Add.
type Set struct {
	fields []*Field
	index  map[string]int
}

// Fields builds a Set from loosely typed arguments. Each argument may be:
//
//   - a string: a bare field name, trimmed; empty strings are dropped
//   - a Field or *Field
//   - a []string or []any: flattened recursively
//   - a map[string]any: each key becomes a field whose value is parsed
//     recursively as its sub-selection (nil means no sub-selection);
//     keys are inserted in sorted order
//   - another *Set: its fields are merged
//   - nil: skipped
//
// Anything else returns a *TypeError naming the offending type. Duplicate
// field identities collapse, last write wins, first-occurrence order is
// preserved. No schema validation happens here.
func Fields(args ...any) (*Set, error) {
	s := &Set{index: make(map[string]int)}
	for _, arg := range args {
		if err := s.put(arg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustFields is Fields but panics on invalid input. Intended for
// statically known selections.
func MustFields(args ...any) *Set {
	s, err := Fields(args...)
	if err != nil {
		panic(err)
	}
	return s
}

// put normalizes one argument into the set. The variant set is closed:
// anything unmatched is a TypeError.
func (s *Set) put(arg any) error {
	switch v := arg.(type) {
	case nil:
		return nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		s.insert(&Field{Name: v})
		return nil
	case Field:
		s.insert(&v)
		return nil
	case *Field:
		if v != nil {
			s.insert(v)
		}
		return nil
	case []string:
		for _, item := range v {
			if err := s.put(item); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, item := range v {
			if err := s.put(item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return s.putMap(v)
	case *Set:
		if v != nil {
			for _, f := range v.fields {
				s.insert(f)
			}
		}
		return nil
	default:
		return &TypeError{Value: arg}
	}
}

// putMap is the nested-selection shorthand: every key becomes a field
// whose sub-selection is the parsed value. Keys are sorted because Go map
// iteration order is unspecified and rendering must be deterministic.
func (s *Set) putMap(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sub, err := Fields(m[k])
		if err != nil {
			return err
		}
		if sub.Len() == 0 {
			sub = nil
		}
		s.insert(&Field{Name: k, SubFields: sub})
	}
	return nil
}

// insert adds a field under its structural key. A repeated key replaces
// the stored field but keeps its original position.
func (s *Set) insert(f *Field) {
	k := f.key()
	if pos, ok := s.index[k]; ok {
		s.fields[pos] = f
		return
	}
	s.index[k] = len(s.fields)
	s.fields = append(s.fields, f)
}

// Add returns a new Set holding the structural union of this set and the
// given arguments. The receiver is not modified.
func (s *Set) Add(args ...any) (*Set, error) {
	combined := &Set{index: make(map[string]int)}
	if s != nil {
		for _, f := range s.fields {
			combined.insert(f)
		}
	}
	for _, arg := range args {
		if err := combined.put(arg); err != nil {
			return nil, err
		}
	}
	return combined, nil
}

// Selected returns the fields in first-occurrence order. Callers must
// treat the slice as read-only.
func (s *Set) Selected() []*Field {
	if s == nil {
		return nil
	}
	return s.fields
}

// Len returns the number of distinct fields.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Contains reports whether the set holds a field with the given
// structural identity. The argument may be a string or a Field.
func (s *Set) Contains(arg any) bool {
	if s == nil {
		return false
	}
	var f *Field
	switch v := arg.(type) {
	case string:
		f = &Field{Name: strings.TrimSpace(v)}
	case Field:
		f = &v
	case *Field:
		f = v
	default:
		return false
	}
	_, ok := s.index[f.key()]
	return ok
}

// Equal reports structural equality of two sets, including order.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s.Len() == other.Len()
	}
	return s.key() == other.key()
}

// key computes the structural identity of the whole set.
func (s *Set) key() string {
	parts := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		parts = append(parts, f.key())
	}
	return strings.Join(parts, " ")
}
