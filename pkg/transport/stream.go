package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/gqlwire/gqlwire/pkg/graphql"
)

// Stream is one live subscription: a lazy, single-pass, non-restartable
// sequence of responses. It is created by the backend after a successful
// handshake and must not be shared across goroutines without external
// synchronization of Recv.
type Stream struct {
	id       string
	request  *graphql.SubscriptionRequest
	conn     Conn
	protocol string
	codec    graphql.Codec
	registry *Registry
	logger   *slog.Logger

	mu    sync.Mutex
	ended bool
}

// ID returns the subscription correlation id.
func (s *Stream) ID() string { return s.id }

// Request returns the subscription request the stream answers.
func (s *Stream) Request() *graphql.SubscriptionRequest { return s.request }

// Recv blocks for the next data frame and wraps its payload in a
// response. Keep-alive and ping/pong frames are consumed and discarded;
// frames addressed to other subscription ids on a shared connection are
// skipped. A terminal frame ends the stream cleanly with io.EOF. A
// non-text or undecodable frame fails the stream with a
// *ProtocolViolationError.
func (s *Stream) Recv(ctx context.Context) (*graphql.Response, error) {
	if s.isEnded() {
		return nil, io.EOF
	}

	for {
		data, err := s.conn.Receive(ctx)
		if err != nil {
			if s.isEnded() {
				// The socket died under a stream that already finished.
				return nil, io.EOF
			}
			s.finish(ctx)
			return nil, err
		}

		var msg message
		if err := s.codec.Unmarshal(data, &msg); err != nil {
			s.finish(ctx)
			return nil, &ProtocolViolationError{Got: "undecodable frame", Err: err}
		}

		if msg.ID != "" && msg.ID != s.id {
			// A frame for another subscription multiplexed on this
			// connection.
			continue
		}

		switch {
		case msg.isHeartbeat():
			if msg.Type == msgTypePing {
				s.pong(ctx, &msg)
			}
			continue
		case msg.isTerminal():
			s.logger.Debug("subscription ended by server", "id", s.id, "frame", msg.Type)
			s.finish(ctx)
			return nil, io.EOF
		default:
			var payload any
			if len(msg.Payload) > 0 {
				if err := s.codec.Unmarshal(msg.Payload, &payload); err != nil {
					s.finish(ctx)
					return nil, &ProtocolViolationError{Got: "undecodable payload", Err: err}
				}
			}
			return graphql.NewResponse(&s.request.Request, payload), nil
		}
	}
}

// Close ends the subscription: it sends the stop control frame with the
// subscription id, closes the connection and removes the stream from the
// registry. Calling Close on an already-ended stream is a no-op, so the
// stop frame is sent at most once.
func (s *Stream) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil
	}
	s.ended = true
	s.mu.Unlock()

	s.logger.Debug("ending subscription", "id", s.id)

	stopType := msgTypeStop
	if s.protocol == ProtocolGraphQLTransportWS {
		stopType = msgTypeComplete
	}
	stop, err := s.codec.Marshal(&message{ID: s.id, Type: stopType})
	if err == nil {
		// Best effort: the socket may already be half-closed by the
		// server.
		if sendErr := s.conn.Send(ctx, stop); sendErr != nil {
			s.logger.Debug("stop frame not delivered", "id", s.id, "error", sendErr)
		}
	}

	closeErr := s.conn.Close("subscription ended")
	if s.registry != nil {
		s.registry.remove(s.id)
	}
	return closeErr
}

// finish is the clean-end path driven by inbound frames; it mirrors
// Close so an explicit Close afterwards is a no-op.
func (s *Stream) finish(ctx context.Context) {
	_ = s.Close(ctx)
}

func (s *Stream) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// pong answers a modern-protocol ping, echoing its payload.
func (s *Stream) pong(ctx context.Context, ping *message) {
	data, err := s.codec.Marshal(&message{Type: msgTypePong, Payload: ping.Payload})
	if err != nil {
		return
	}
	_ = s.conn.Send(ctx, data)
}
