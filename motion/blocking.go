package motion

import (
	"context"
	"errors"
	"time"

	"github.com/robomotion/go-smp/internal/pool"
	"github.com/robomotion/go-smp/rs232"
	"github.com/robomotion/go-smp/smp"
)

// MovePosBlocking moves to an absolute position and blocks until the
// module reports that the position is reached. It returns the final
// position from the CMD POS REACHED frame.
//
// If ctx is cancelled while waiting, a stop command is written on the
// still-open channel, the channel is closed and the context's error is
// returned unchanged.
func (m *Module) MovePosBlocking(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.moveBlocking(ctx, smp.CmdMovePos, position, optional)
}

// MovePosRelBlocking is the relative-position variant of
// MovePosBlocking.
func (m *Module) MovePosRelBlocking(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.moveBlocking(ctx, smp.CmdMovePosRel, position, optional)
}

func (m *Module) moveBlocking(ctx context.Context, opcode byte, position float64, optional []float64) (float64, error) {
	payload, err := movePayload(position, optional)
	if err != nil {
		return 0, err
	}

	frame, err := smp.EncodeFrame(opcode, payload)
	if err != nil {
		return 0, err
	}

	session, err := m.conn.OpenSession()
	if err != nil {
		return 0, err
	}
	defer session.Close()

	raw, err := session.Send(ctx, frame)
	if err != nil {
		return 0, m.bailWait(ctx, session, err)
	}

	// The immediate response carries the estimated motion time; it is
	// not needed here, but a device error must still surface.
	if _, err := smp.DecodeFrame(opcode, raw); err != nil {
		return 0, err
	}

	deadline := m.startWaitDeadline()
	defer deadline.release()

	for {
		if deadline.expired() {
			return 0, ErrWaitTimeout
		}

		raw, err = session.Next(ctx)
		if err != nil {
			return 0, m.bailWait(ctx, session, err)
		}

		if len(raw) < 2 || raw[1] != smp.CmdPosReached {
			continue
		}

		resp, err := smp.DecodeFrame(smp.CmdPosReached, raw)
		if err != nil {
			return 0, err
		}

		pos, err := smp.UnpackFloat32(resp.Payload)
		if err != nil {
			return 0, err
		}

		return float64(pos), nil
	}
}

// WaitUntilPositionReached polls the module until the status bitfield
// reports that the position is reached, then returns the position. The
// poll runs on one open channel; unsolicited CMD POS REACHED frames
// arriving between a poll request and its response are skipped with an
// extra read.
//
// Cancellation behaves as in MovePosBlocking: stop written, channel
// closed, context error returned unchanged.
func (m *Module) WaitUntilPositionReached(ctx context.Context) (float64, error) {
	payload, err := stateRequestFormat.Pack(0.0, stateModePosition)
	if err != nil {
		return 0, err
	}

	frame, err := smp.EncodeFrame(smp.CmdGetState, payload)
	if err != nil {
		return 0, err
	}

	session, err := m.conn.OpenSession()
	if err != nil {
		return 0, err
	}
	defer session.Close()

	deadline := m.startWaitDeadline()
	defer deadline.release()

	for {
		if deadline.expired() {
			return 0, ErrWaitTimeout
		}

		raw, err := session.Send(ctx, frame)
		if err != nil {
			return 0, m.bailWait(ctx, session, err)
		}

		// An impulse frame is not the answer to the poll; read on.
		for len(raw) >= 2 && raw[1] == smp.CmdPosReached {
			raw, err = session.Next(ctx)
			if err != nil {
				return 0, m.bailWait(ctx, session, err)
			}
		}

		resp, err := smp.DecodeFrame(smp.CmdGetState, raw)
		if err != nil {
			return 0, err
		}

		values, err := resp.Unpack(positionReportFormat)
		if err != nil {
			return 0, err
		}

		if status := smp.Status(values[1].(byte)); status.PositionReached() {
			return float64(values[0].(float32)), nil
		}
	}
}

// StreamState puts the module into periodic reporting mode (GET STATE
// with a nonzero interval) and forwards every report to handler. It
// returns when ctx ends; before the channel is closed the stream is
// shut off with an interval of zero, best effort, and the context's
// error is returned.
func (m *Module) StreamState(ctx context.Context, interval time.Duration, handler func(State)) error {
	if interval <= 0 {
		return errors.New("motion: stream interval must be positive")
	}

	payload, err := stateRequestFormat.Pack(float32(interval.Seconds()), stateModeAll)
	if err != nil {
		return err
	}

	frame, err := smp.EncodeFrame(smp.CmdGetState, payload)
	if err != nil {
		return err
	}

	session, err := m.conn.OpenSession()
	if err != nil {
		return err
	}
	defer session.Close()

	raw, err := session.Send(ctx, frame)
	for {
		if err != nil {
			return m.bailStream(ctx, session, err)
		}

		resp, derr := smp.DecodeFrame(smp.CmdGetState, raw)
		if derr != nil {
			return derr
		}

		state, derr := stateFromResponse(resp)
		if derr != nil {
			return derr
		}
		handler(state)

		raw, err = session.Next(ctx)
	}
}

// bailWait finishes a blocking wait that ended with an error. A
// cancelled context means the axis may still be moving with nobody
// left to watch it, so a stop goes out on the still-open channel and
// the context's error is returned unchanged. Every other failure
// passes through; the deferred Close releases the channel.
func (m *Module) bailWait(ctx context.Context, session *rs232.Session, err error) error {
	if ctx.Err() == nil {
		return err
	}

	m.stopAfterInterrupt(session)

	return ctx.Err()
}

// bailStream is bailWait for StreamState: on cancellation the module
// is asked to stop emitting reports before the channel goes away.
func (m *Module) bailStream(ctx context.Context, session *rs232.Session, err error) error {
	if ctx.Err() == nil {
		return err
	}

	if payload, perr := stateRequestFormat.Pack(0.0, stateModeAll); perr == nil {
		if frame, ferr := smp.EncodeFrame(smp.CmdGetState, payload); ferr == nil {
			if serr := session.SendNoReply(frame); serr != nil {
				m.logger.Warn("motion: stopping state stream failed", "error", serr)
			}
		}
	}
	_ = session.Close()

	return ctx.Err()
}

func (m *Module) stopAfterInterrupt(session *rs232.Session) {
	frame, err := smp.EncodeFrame(smp.CmdStop, nil)
	if err == nil {
		err = session.SendNoReply(frame)
	}
	if err != nil {
		m.logger.Warn("motion: stop after interrupt failed", "error", err)
	}
	_ = session.Close()
}

// waitDeadline bounds a blocking wait with a pooled timer. The nil
// deadline never expires.
type waitDeadline struct {
	timer *time.Timer
}

func (m *Module) startWaitDeadline() *waitDeadline {
	if m.waitTimeout <= 0 {
		return nil
	}

	return &waitDeadline{timer: pool.GetTimer(m.waitTimeout)}
}

func (d *waitDeadline) expired() bool {
	if d == nil {
		return false
	}

	select {
	case <-d.timer.C:
		return true
	default:
		return false
	}
}

func (d *waitDeadline) release() {
	if d != nil {
		pool.PutTimer(d.timer)
	}
}
