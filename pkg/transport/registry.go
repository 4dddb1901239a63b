package transport

import (
	"context"
	"errors"
	"sync"
)

// Registry tracks live subscription streams by id so they can be torn
// down in bulk. It is owned by the backend that created it, appended to
// on subscription start and drained on stream end; all methods are safe
// for concurrent use.
type Registry struct {
	mu      sync.Mutex
	streams map[string]*Stream
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]*Stream)}
}

func (r *Registry) add(s *Stream) {
	r.mu.Lock()
	r.streams[s.id] = s
	r.mu.Unlock()
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.streams, id)
	r.mu.Unlock()
}

// Get returns the live stream with the given id, or nil.
func (r *Registry) Get(id string) *Stream {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.streams[id]
}

// Len returns the number of live streams.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// CloseAll ends every live stream. Each stream is closed independently;
// one failure does not stop the teardown of the rest. The combined error
// is returned.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	streams := make([]*Stream, 0, len(r.streams))
	for _, s := range r.streams {
		streams = append(streams, s)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range streams {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
