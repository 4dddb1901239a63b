// Package graphql holds the request/response model, the plugin chain and
// the schema-aware client that composes, validates and executes GraphQL
// operations over a pluggable backend.
package graphql
