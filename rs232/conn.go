package rs232

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/robomotion/go-smp/logger"
)

// ImpulseHandler is invoked with the bare frame of every impulse
// (message type 0x07) envelope whose opcode it was registered for.
// Handlers run synchronously inside the session's read path and must
// not block.
type ImpulseHandler func(frame []byte)

// Connection represents one module reachable over a serial line. It
// owns the transport and per-connection metrics; every logical call
// opens its own [Session] (one channel per call, released on every
// exit path), matching the single-in-flight model of the protocol.
//
// Connection itself holds no open channel between calls.
type Connection struct {
	cfg       *ConnectionConfig
	transport Transport
	framer    Framer
	logger    logger.Logger

	impulseHandlers *xsync.MapOf[byte, []ImpulseHandler]

	metrics ConnectionMetrics
}

// NewConnection creates a Connection from the given configuration.
func NewConnection(cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, errors.New("rs232: connection config is nil")
	}

	transport := cfg.transport
	if transport == nil {
		transport = NewSerialTransport(cfg.portName, cfg.baudRate, cfg.readTimeout)
	}

	return &Connection{
		cfg:             cfg,
		transport:       transport,
		framer:          NewFramer(cfg.address),
		logger:          cfg.logger,
		impulseHandlers: xsync.NewMapOf[byte, []ImpulseHandler](),
	}, nil
}

// Address returns the configured module address.
func (c *Connection) Address() byte {
	return c.framer.Address()
}

// Metrics returns the connection's metrics.
func (c *Connection) Metrics() *ConnectionMetrics {
	return &c.metrics
}

// Logger returns the logger the connection was configured with.
func (c *Connection) Logger() logger.Logger {
	return c.logger
}

// OpenSession opens a channel and returns a Session owning it. The
// caller must Close the session; Close is safe on every exit path and
// closes the channel exactly once.
func (c *Connection) OpenSession() (*Session, error) {
	ch, err := c.transport.Open()
	if err != nil {
		c.metrics.incTransportErrCount()

		return nil, err
	}

	c.metrics.incSessionOpenCount()

	return &Session{
		conn:   c,
		ch:     ch,
		framer: c.framer,
		logger: c.logger,
	}, nil
}

// Do performs a single request/response exchange on a fresh session:
// open, send, read, close. It returns the bare response frame.
func (c *Connection) Do(ctx context.Context, frame []byte) ([]byte, error) {
	session, err := c.OpenSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.Send(ctx, frame)
}

// AddImpulseHandler registers a handler for impulse envelopes carrying
// the given opcode. Multiple handlers per opcode are invoked in
// registration order.
func (c *Connection) AddImpulseHandler(opcode byte, handler ImpulseHandler) {
	c.impulseHandlers.Compute(opcode,
		func(handlers []ImpulseHandler, _ bool) ([]ImpulseHandler, bool) {
			return append(handlers, handler), false
		})
}

// dispatchImpulse routes an impulse frame to the handlers registered
// for its opcode. Frames with no registered handler are not an error;
// the session still returns them to its caller.
func (c *Connection) dispatchImpulse(frame []byte) {
	if len(frame) < 2 {
		return
	}

	handlers, ok := c.impulseHandlers.Load(frame[1])
	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(frame)
	}
}
