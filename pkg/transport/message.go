package transport

import "encoding/json"

// Subscription websocket subprotocols.
const (
	// ProtocolGraphQLWS is the legacy subscriptions-transport-ws
	// protocol.
	ProtocolGraphQLWS = "graphql-ws"
	// ProtocolGraphQLTransportWS is the modern graphql-transport-ws
	// protocol.
	ProtocolGraphQLTransportWS = "graphql-transport-ws"
)

// Message types shared by both protocols.
const (
	msgTypeConnectionInit = "connection_init"
	msgTypeConnectionAck  = "connection_ack"
)

// graphql-transport-ws (modern) message types.
const (
	msgTypePing      = "ping"
	msgTypePong      = "pong"
	msgTypeSubscribe = "subscribe"
	msgTypeNext      = "next"
	msgTypeComplete  = "complete"
)

// subscriptions-transport-ws (legacy) message types.
const (
	msgTypeKeepAlive           = "ka"
	msgTypeStart               = "start"
	msgTypeData                = "data"
	msgTypeStop                = "stop"
	msgTypeConnectionError     = "connection_error"
	msgTypeConnectionTerminate = "connection_terminate"
)

// message is one protocol frame. The id correlates frames of a single
// subscription on a shared connection.
type message struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// isTerminal reports whether the frame ends the stream for its id. A
// server-initiated end is expected protocol behavior, not a failure.
func (m *message) isTerminal() bool {
	switch m.Type {
	case msgTypeComplete, msgTypeConnectionError, msgTypeConnectionTerminate:
		return true
	}
	return false
}

// isHeartbeat reports whether the frame is connection upkeep to consume
// and discard.
func (m *message) isHeartbeat() bool {
	switch m.Type {
	case msgTypeKeepAlive, msgTypePing, msgTypePong:
		return true
	}
	return false
}
