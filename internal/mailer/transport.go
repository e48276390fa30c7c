package mailer

import (
	"context"
	"sync"
)

// Transport hands a rendered message to the outside world and returns the
// message identifier it was sent under.
type Transport interface {
	Send(ctx context.Context, msg *OutboundMessage) (string, error)
}

// TransportFactory builds the process-wide Transport
type TransportFactory func() (Transport, error)

// LazyTransport constructs its Transport on first use and reuses it afterwards.
// Concurrent first calls share a single construction, including its error: a
// failed construction is never retried, so every later Get returns the same error.
type LazyTransport struct {
	factory   TransportFactory
	once      sync.Once
	transport Transport
	err       error
}

// NewLazyTransport wraps factory
func NewLazyTransport(factory TransportFactory) *LazyTransport {
	return &LazyTransport{factory: factory}
}

// Static wraps an already constructed transport, as tests do with fakes
func Static(t Transport) *LazyTransport {
	return NewLazyTransport(func() (Transport, error) { return t, nil })
}

// Get returns the shared Transport, constructing it if needed
func (l *LazyTransport) Get() (Transport, error) {
	l.once.Do(func() {
		l.transport, l.err = l.factory()
	})
	return l.transport, l.err
}
