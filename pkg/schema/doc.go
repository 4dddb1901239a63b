// Package schema models a GraphQL type system as reported by server
// introspection and parses raw introspection documents into a navigable,
// self-referential type graph.
//
// Parsing is two-pass: all named types are registered first, then every
// TypeRef is resolved against the registry. This is required because
// introspection expresses the type graph by name and the graph may be
// cyclic (a type can reference itself).
//
// A Schema is immutable once constructed and is safe for concurrent use.
package schema
