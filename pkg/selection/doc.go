// Package selection composes GraphQL field selections without a schema,
// then validates and renders them against one.
//
// Selections are built from loosely typed inputs (strings, slices, maps,
// Field values or other Sets), deduplicated structurally, and stay fully
// schema-free until Prepare walks the tree against a *schema.Schema and
// produces an immutable, renderable prepared tree.
package selection
