// Package transport executes GraphQL operations over HTTP and drives the
// graphql-ws / graphql-transport-ws subscription protocols over a duplex
// message connection.
//
// The subscription engine is a per-subscription state machine: a
// connection_init/ack handshake, a start frame, then a streaming loop
// that filters protocol control frames and exposes data frames as a
// lazy, single-pass sequence of responses.
package transport
