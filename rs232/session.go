package rs232

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robomotion/go-smp/logger"
)

// SessionState is the state of an exchange session.
type SessionState int32

const (
	// StateIdle: no exchange in flight.
	StateIdle SessionState = iota
	// StateSending: the request envelope is being written.
	StateSending
	// StateAwaitingFrame: waiting for the direct response envelope.
	StateAwaitingFrame
	// StateMultiFrameWait: waiting for an additional envelope with no
	// request in flight (blocking motion calls).
	StateMultiFrameWait
	// StateDecoded: the last exchange produced a valid frame.
	StateDecoded
	// StateFailed: the last exchange failed.
	StateFailed
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSending:
		return "Sending"
	case StateAwaitingFrame:
		return "AwaitingFrame"
	case StateMultiFrameWait:
		return "MultiFrameWait"
	case StateDecoded:
		return "Decoded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Session drives one or more frame exchanges over a single open
// channel. It is created by [Connection.OpenSession], owns the channel
// exclusively, and closes it exactly once regardless of how many times
// Close is called or on which path the call ends.
//
// A Session supports the one-write-one-read exchange ([Session.Send])
// and additional reads with no intervening write ([Session.Next]),
// which is how blocking motion calls receive their unsolicited
// position-reached notification on the still-open channel.
//
// Cancellation is cooperative: the context is consulted at every
// suspension point, and a cancelled context is reported as the context
// error itself so callers can run their cleanup and propagate it
// unchanged.
type Session struct {
	conn   *Connection
	ch     Channel
	framer Framer
	logger logger.Logger

	state     atomic.Int32
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// State returns the session's current state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(int32(state))
}

// Send writes one frame and reads its response envelope. The returned
// slice is the bare response frame [D-Len][Opcode][Payload...].
func (s *Session) Send(ctx context.Context, frame []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setState(StateSending)

	if err := s.writeEnvelope(frame); err != nil {
		s.setState(StateFailed)

		return nil, err
	}

	s.setState(StateAwaitingFrame)

	return s.await(ctx)
}

// Next reads one more envelope without writing a request. It is the
// MultiFrameWait leg of a blocking motion call: the module delivers an
// unsolicited notification on the same still-open channel, with no
// re-handshake in between.
func (s *Session) Next(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setState(StateMultiFrameWait)

	return s.await(ctx)
}

// SendNoReply writes one frame without waiting for a response. It
// exists for the cancellation cleanup path, where a stop command must
// go out on the already-open channel before the interrupt propagates.
func (s *Session) SendNoReply(frame []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	return s.writeEnvelope(frame)
}

// Close closes the underlying channel. Only the first call has any
// effect; later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.ch.Close()
		s.conn.metrics.incSessionCloseCount()
		s.logger.Debug("rs232: session closed", "address", s.framer.Address())
	})

	return s.closeErr
}

func (s *Session) writeEnvelope(frame []byte) error {
	envelope := s.framer.Wrap(frame)

	if err := writeAll(s.ch, envelope); err != nil {
		s.conn.metrics.incTransportErrCount()

		return fmt.Errorf("%w: writing envelope: %v", ErrTransport, err)
	}

	s.conn.metrics.incFrameSendCount()
	s.logger.Debug("rs232: envelope sent", "address", s.framer.Address(), "bytes", len(envelope))

	return nil
}

// await blocks on the channel for one envelope and validates it.
// A context cancelled during the read takes priority over both the
// received frame and any read error, so the caller always observes the
// interrupt itself.
func (s *Session) await(ctx context.Context) ([]byte, error) {
	msgType, frame, err := s.framer.Unwrap(s.ch)

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.setState(StateFailed)

		return nil, ctxErr
	}

	if err != nil {
		s.setState(StateFailed)

		switch {
		case errors.Is(err, ErrChecksum):
			s.conn.metrics.incChecksumErrCount()
		default:
			s.conn.metrics.incTransportErrCount()
		}

		return nil, err
	}

	s.conn.metrics.incFrameRecvCount()

	if msgType == MsgImpulse {
		s.conn.metrics.incImpulseRecvCount()
		s.conn.dispatchImpulse(frame)
	}

	s.setState(StateDecoded)
	s.logger.Debug("rs232: envelope received",
		"address", s.framer.Address(), "type", msgType, "dlen", frame[0])

	return frame, nil
}
