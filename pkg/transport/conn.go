package transport

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
)

// Conn is a duplex text-message connection. The subscription engine
// depends only on this shape, not on websockets.
type Conn interface {
	// Send writes one text message.
	Send(ctx context.Context, data []byte) error
	// Receive blocks for the next text message. A non-text inbound
	// frame surfaces a *ProtocolViolationError.
	Receive(ctx context.Context) ([]byte, error)
	// Close closes the connection. Safe to call more than once.
	Close(reason string) error
}

// Dialer opens a duplex connection to a subscription endpoint and
// returns it together with the negotiated subprotocol.
type Dialer func(ctx context.Context, endpoint string, subprotocols []string, headers http.Header) (Conn, string, error)

// DialWebsocket is the default Dialer, backed by coder/websocket.
func DialWebsocket(ctx context.Context, endpoint string, subprotocols []string, headers http.Header) (Conn, string, error) {
	conn, _, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{
		Subprotocols: subprotocols,
		HTTPHeader:   headers,
	})
	if err != nil {
		return nil, "", err
	}

	protocol := conn.Subprotocol()
	if protocol == "" {
		protocol = ProtocolGraphQLTransportWS
	}
	return &wsConn{conn: conn}, protocol, nil
}

// wsConn adapts a websocket connection to the Conn contract.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Receive(ctx context.Context) ([]byte, error) {
	msgType, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if msgType != websocket.MessageText {
		return nil, &ProtocolViolationError{Got: msgType.String()}
	}
	return data, nil
}

func (c *wsConn) Close(reason string) error {
	return c.conn.Close(websocket.StatusNormalClosure, reason)
}
