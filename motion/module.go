package motion

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/robomotion/go-smp/logger"
	"github.com/robomotion/go-smp/rs232"
	"github.com/robomotion/go-smp/smp"
)

// GET STATE mode bits (manual §2.5.1).
const (
	stateModePosition byte = 0x01
	stateModeVelocity byte = 0x02
	stateModeCurrent  byte = 0x04
	stateModeAll           = stateModePosition | stateModeVelocity | stateModeCurrent
)

var (
	okLiteral = []byte("OK")

	// GET STATE request: interval in seconds followed by the mode bits.
	stateRequestFormat = smp.Format{smp.Float32Field, smp.Uint8Field}
	// Full state report: position, velocity, current, status, error code.
	stateReportFormat = smp.Format{
		smp.Float32Field, smp.Float32Field, smp.Float32Field,
		smp.Uint8Field, smp.Uint8Field,
	}
	// Position-only state report, used while waiting for a move to end.
	positionReportFormat = smp.Format{smp.Float32Field, smp.Uint8Field, smp.Uint8Field}
)

// State is one state report of the module.
type State struct {
	Position  float64
	Velocity  float64
	Current   float64
	Status    smp.Status
	ErrorCode byte
}

// Module exposes the command surface of one motion module.
//
// Module is not safe for concurrent use; the protocol allows a single
// request in flight per module.
type Module struct {
	conn        *rs232.Connection
	logger      logger.Logger
	waitTimeout time.Duration
}

// ModuleOption adjusts a Module.
type ModuleOption func(*Module)

// WithWaitTimeout bounds how long the blocking calls (MovePosBlocking,
// WaitUntilPositionReached and friends) wait for the axis to reach its
// target. Zero, the default, waits indefinitely. An expired wait fails
// with ErrWaitTimeout; it is an ordinary failure and does not stop the
// axis.
func WithWaitTimeout(d time.Duration) ModuleOption {
	return func(m *Module) {
		m.waitTimeout = d
	}
}

// NewModule creates a Module driving the device behind conn.
func NewModule(conn *rs232.Connection, opts ...ModuleOption) *Module {
	m := &Module{
		conn:   conn,
		logger: conn.Logger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// exchange performs a one-shot command exchange and decodes the
// response frame against the sent opcode.
func (m *Module) exchange(ctx context.Context, opcode byte, payload []byte) (*smp.Response, error) {
	frame, err := smp.EncodeFrame(opcode, payload)
	if err != nil {
		return nil, err
	}

	raw, err := m.conn.Do(ctx, frame)
	if err != nil {
		return nil, err
	}

	return smp.DecodeFrame(opcode, raw)
}

// command performs an exchange that must be acknowledged with "OK".
func (m *Module) command(ctx context.Context, opcode byte, payload []byte) error {
	resp, err := m.exchange(ctx, opcode, payload)
	if err != nil {
		return err
	}

	return resp.ExpectLiteral(okLiteral)
}

// Reference performs a reference movement (manual §2.1.1).
func (m *Module) Reference(ctx context.Context) error {
	return m.command(ctx, smp.CmdReference, nil)
}

// MovePos moves to an absolute position (manual §2.1.3) and returns
// the estimated time to reach it, or 0.0 if the device cannot estimate
// it. The optional arguments are velocity, acceleration, current and
// jerk, in that order; trailing ones may be omitted.
func (m *Module) MovePos(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.move(ctx, smp.CmdMovePos, position, optional)
}

// MovePosRel moves to a position relative to the current one (manual
// §2.1.4). Optional arguments as in MovePos.
func (m *Module) MovePosRel(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.move(ctx, smp.CmdMovePosRel, position, optional)
}

// MovePosTime moves to an absolute position (manual §2.1.5). The
// optional arguments are velocity, acceleration, current and time.
func (m *Module) MovePosTime(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.move(ctx, smp.CmdMovePosTime, position, optional)
}

// MovePosTimeRel moves to a relative position (manual §2.1.6). The
// optional arguments are velocity, acceleration, current and time.
func (m *Module) MovePosTimeRel(ctx context.Context, position float64, optional ...float64) (float64, error) {
	return m.move(ctx, smp.CmdMovePosTimeRel, position, optional)
}

func (m *Module) move(ctx context.Context, opcode byte, position float64, optional []float64) (float64, error) {
	payload, err := movePayload(position, optional)
	if err != nil {
		return 0, err
	}

	resp, err := m.exchange(ctx, opcode, payload)
	if err != nil {
		return 0, err
	}

	return estimatedTime(resp)
}

// movePayload packs the position and up to four optional motion
// parameters as consecutive float32 values.
func movePayload(position float64, optional []float64) ([]byte, error) {
	if len(optional) > 4 {
		return nil, fmt.Errorf("motion: %d optional motion parameters, at most 4 allowed",
			len(optional))
	}

	values := make([]float32, 0, 1+len(optional))
	values = append(values, float32(position))
	for _, v := range optional {
		values = append(values, float32(v))
	}

	return smp.PackFloat32(values...), nil
}

// estimatedTime interprets a move response: either "OK" (no estimate
// available) or a single float with the estimated motion time.
func estimatedTime(resp *smp.Response) (float64, error) {
	if bytes.Equal(resp.Payload, okLiteral) {
		return 0, nil
	}

	est, err := smp.UnpackFloat32(resp.Payload)
	if err != nil {
		return 0, fmt.Errorf("%w: neither OK nor an estimated time", smp.ErrUnexpectedResponse)
	}

	return float64(est), nil
}

// SetTargetVel sets the target velocity (manual §2.1.14).
func (m *Module) SetTargetVel(ctx context.Context, velocity float64) error {
	return m.command(ctx, smp.CmdSetTargetVel, smp.PackFloat32(float32(velocity)))
}

// SetTargetAcc sets the target acceleration (manual §2.1.15).
func (m *Module) SetTargetAcc(ctx context.Context, acceleration float64) error {
	return m.command(ctx, smp.CmdSetTargetAcc, smp.PackFloat32(float32(acceleration)))
}

// SetTargetJerk sets the target jerk (manual §2.1.16).
func (m *Module) SetTargetJerk(ctx context.Context, jerk float64) error {
	return m.command(ctx, smp.CmdSetTargetJerk, smp.PackFloat32(float32(jerk)))
}

// SetTargetCur sets the target current (manual §2.1.17).
func (m *Module) SetTargetCur(ctx context.Context, current float64) error {
	return m.command(ctx, smp.CmdSetTargetCur, smp.PackFloat32(float32(current)))
}

// SetTargetTime sets the target motion time (manual §2.1.18).
func (m *Module) SetTargetTime(ctx context.Context, t float64) error {
	return m.command(ctx, smp.CmdSetTargetTime, smp.PackFloat32(float32(t)))
}

// Stop halts the current motion (manual §2.1.19).
func (m *Module) Stop(ctx context.Context) error {
	return m.command(ctx, smp.CmdStop, nil)
}

// ToggleImpulseMessage toggles the module's unsolicited impulse
// messages (manual §2.2.6) and reports whether they are now enabled.
func (m *Module) ToggleImpulseMessage(ctx context.Context) (bool, error) {
	resp, err := m.exchange(ctx, smp.CmdToggleImpulseMessage, nil)
	if err != nil {
		return false, err
	}

	switch string(resp.Payload) {
	case "ON":
		return true, nil
	case "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("%w: impulse message state %q",
			smp.ErrUnexpectedResponse, resp.Payload)
	}
}

// GetState queries position, velocity, current, the status bitfield
// and the pending error code (manual §2.5.1).
func (m *Module) GetState(ctx context.Context) (State, error) {
	payload, err := stateRequestFormat.Pack(0.0, stateModeAll)
	if err != nil {
		return State{}, err
	}

	resp, err := m.exchange(ctx, smp.CmdGetState, payload)
	if err != nil {
		return State{}, err
	}

	return stateFromResponse(resp)
}

func stateFromResponse(resp *smp.Response) (State, error) {
	values, err := resp.Unpack(stateReportFormat)
	if err != nil {
		return State{}, err
	}

	return State{
		Position:  float64(values[0].(float32)),
		Velocity:  float64(values[1].(float32)),
		Current:   float64(values[2].(float32)),
		Status:    smp.Status(values[3].(byte)),
		ErrorCode: values[4].(byte),
	}, nil
}

// Reboot restarts the module (manual §2.5.2).
func (m *Module) Reboot(ctx context.Context) error {
	return m.command(ctx, smp.CmdReboot, nil)
}

// Ack acknowledges a pending error message (manual §2.8.1.4).
func (m *Module) Ack(ctx context.Context) error {
	return m.command(ctx, smp.CmdAck, nil)
}

// UserLevel is the access level granted by the module after a
// CHANGE USER exchange.
type UserLevel byte

const (
	UserLevelUser  UserLevel = 0x00
	UserLevelDiag  UserLevel = 0x01
	UserLevelProfi UserLevel = 0x02
)

// String returns the manual's name for the level.
func (l UserLevel) String() string {
	switch l {
	case UserLevelUser:
		return "User"
	case UserLevelDiag:
		return "Diag"
	case UserLevelProfi:
		return "Profi"
	default:
		return fmt.Sprintf("Level(0x%02X)", byte(l))
	}
}

// ChangeUserLevel switches the access level (manual §2.5.6). The empty
// password selects the default User level; otherwise the level is
// determined by the password. The granted level is returned.
func (m *Module) ChangeUserLevel(ctx context.Context, password string) (UserLevel, error) {
	resp, err := m.exchange(ctx, smp.CmdChangeUserLevel, []byte(password))
	if err != nil {
		return 0, err
	}

	p := resp.Payload
	if len(p) != 3 || !bytes.Equal(p[:2], okLiteral) {
		return 0, fmt.Errorf("%w: user level change not acknowledged",
			smp.ErrUnexpectedResponse)
	}

	return UserLevel(p[2]), nil
}

// Fixed test vector of the communication self-tests (manual §2.5.7).
var (
	commCheckFormat = smp.Format{
		smp.Float32Field, smp.Float32Field,
		smp.Int32Field, smp.Int32Field,
		smp.Int16Field, smp.Int16Field,
	}
	commCheckValues = []smp.Value{
		float32(-1.2345), float32(47.11),
		int32(287454020), int32(-1122868),
		int16(512), int16(-20482),
	}
)

// CheckMCPCCommunication runs the module-to-host self-test (manual
// §2.5.7): the module sends a fixed test vector which must arrive
// intact. Floats are compared within 1e-6.
func (m *Module) CheckMCPCCommunication(ctx context.Context) error {
	resp, err := m.exchange(ctx, smp.CmdCheckMCPC, nil)
	if err != nil {
		return err
	}

	values, err := resp.Unpack(commCheckFormat)
	if err != nil {
		return err
	}

	for i, want := range commCheckValues {
		got := values[i]
		if f, ok := want.(float32); ok {
			g, ok := got.(float32)
			if !ok || g < f-1e-6 || g > f+1e-6 {
				return fmt.Errorf("%w: self-test value %d is %v, want %v",
					smp.ErrUnexpectedResponse, i, got, want)
			}

			continue
		}
		if got != want {
			return fmt.Errorf("%w: self-test value %d is %v, want %v",
				smp.ErrUnexpectedResponse, i, got, want)
		}
	}

	return nil
}

// CheckPCMCCommunication runs the host-to-module self-test (manual
// §2.5.8): the fixed test vector is sent and the module acknowledges
// its intact arrival.
func (m *Module) CheckPCMCCommunication(ctx context.Context) error {
	payload, err := commCheckFormat.Pack(commCheckValues...)
	if err != nil {
		return err
	}

	resp, err := m.exchange(ctx, smp.CmdCheckPCMC, payload)
	if err != nil {
		return err
	}

	return resp.ExpectLiteral([]byte("OK\x00"))
}

// DetailedError is the module's detailed error report (manual
// §2.8.1.5). Data is a diagnostic value interpreted by the Schunk
// service; it is passed through as-is.
type DetailedError struct {
	Severity smp.Severity
	Code     byte
	Data     float64
}

// Category returns the manual's category string for the error code.
func (e DetailedError) Category() string {
	return smp.ErrorCategory(e.Code)
}

var detailedErrorFormat = smp.Format{smp.Uint8Field, smp.Uint8Field, smp.Float32Field}

// GetDetailedErrorInfo queries detailed information on the pending
// error (manual §2.8.1.5). If no error is active the module itself
// answers with an "INFO FAILED" event, surfaced as a *smp.DeviceError.
func (m *Module) GetDetailedErrorInfo(ctx context.Context) (DetailedError, error) {
	resp, err := m.exchange(ctx, smp.CmdGetDetailedErrorInfo, nil)
	if err != nil {
		return DetailedError{}, err
	}

	values, err := resp.Unpack(detailedErrorFormat)
	if err != nil {
		return DetailedError{}, err
	}

	severity := smp.SeverityError
	switch values[0].(byte) {
	case smp.CmdWarning:
		severity = smp.SeverityWarning
	case smp.CmdInfo:
		severity = smp.SeverityInfo
	}

	return DetailedError{
		Severity: severity,
		Code:     values[1].(byte),
		Data:     float64(values[2].(float32)),
	}, nil
}
