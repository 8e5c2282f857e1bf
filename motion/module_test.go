package motion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robomotion/go-smp/rs232"
	"github.com/robomotion/go-smp/smp"
)

const testAddress byte = 0x0B

// scriptChannel is a scripted byte channel: reads are served from a
// pre-filled buffer, writes are recorded, closes are counted.
type scriptChannel struct {
	reads  bytes.Buffer
	writes bytes.Buffer
	closes int

	// onRead, when set, runs before every Read.
	onRead func()
}

func (c *scriptChannel) Read(p []byte) (int, error) {
	if c.onRead != nil {
		c.onRead()
	}
	if c.reads.Len() == 0 {
		return 0, io.EOF
	}

	return c.reads.Read(p)
}

func (c *scriptChannel) Write(p []byte) (int, error) {
	return c.writes.Write(p)
}

func (c *scriptChannel) Close() error {
	c.closes++

	return nil
}

type scriptTransport struct {
	ch *scriptChannel
}

func (t *scriptTransport) Open() (rs232.Channel, error) {
	return t.ch, nil
}

// respond appends one scripted response envelope to the channel.
func (c *scriptChannel) respond(msgType byte, frame []byte) {
	env := append([]byte{msgType, testAddress}, frame...)
	c.reads.Write(smp.AppendChecksum(env))
}

// sentEnvelope is the envelope the module is expected to have written
// for frame.
func sentEnvelope(frame []byte) []byte {
	env := append([]byte{rs232.MsgMasterToModule, testAddress}, frame...)

	return smp.AppendChecksum(env)
}

func newTestModule(t *testing.T, ch *scriptChannel, opts ...ModuleOption) *Module {
	t.Helper()

	cfg, err := rs232.NewConnectionConfig("", testAddress,
		rs232.WithTransport(&scriptTransport{ch: ch}))
	require.NoError(t, err)

	conn, err := rs232.NewConnection(cfg)
	require.NoError(t, err)

	return NewModule(conn, opts...)
}

func TestModule_Reference(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x03, 0x92, 'O', 'K'})

	mod := newTestModule(t, ch)

	require.NoError(t, mod.Reference(context.Background()))
	assert.Equal(t, sentEnvelope([]byte{0x01, 0x92}), ch.writes.Bytes())
	assert.Equal(t, 1, ch.closes)
}

func TestModule_AckCommands(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		call   func(*Module, context.Context) error
	}{
		{"stop", 0x91, (*Module).Stop},
		{"reboot", 0xE0, (*Module).Reboot},
		{"ack", 0x8B, (*Module).Ack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &scriptChannel{}
			ch.respond(rs232.MsgResponse, []byte{0x03, tt.opcode, 'O', 'K'})

			mod := newTestModule(t, ch)

			require.NoError(t, tt.call(mod, context.Background()))
			assert.Equal(t, sentEnvelope([]byte{0x01, tt.opcode}), ch.writes.Bytes())
		})
	}
}

func TestModule_MovePos(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x05, 0xB0, 0xCD, 0xCC, 0x04, 0x41})

	mod := newTestModule(t, ch)

	est, err := mod.MovePos(context.Background(), 10.0)
	require.NoError(t, err)
	assert.InDelta(t, 8.300000190734863, est, 1e-12)
	assert.Equal(t, sentEnvelope([]byte{0x05, 0xB0, 0x00, 0x00, 0x20, 0x41}), ch.writes.Bytes())
}

func TestModule_MovePosOKResponse(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x03, 0xB0, 'O', 'K'})

	mod := newTestModule(t, ch)

	est, err := mod.MovePos(context.Background(), 10.0)
	require.NoError(t, err)
	assert.Zero(t, est)
}

func TestModule_MovePosWithOptionals(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x03, 0xB8, 'O', 'K'})

	mod := newTestModule(t, ch)

	_, err := mod.MovePosRel(context.Background(), 10.0, 5.0)
	require.NoError(t, err)

	payload := smp.PackFloat32(10.0, 5.0)
	want := sentEnvelope(append([]byte{0x09, 0xB8}, payload...))
	assert.Equal(t, want, ch.writes.Bytes())
}

func TestModule_MoveVariants(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		call   func(*Module, context.Context, float64, ...float64) (float64, error)
	}{
		{"move pos", 0xB0, (*Module).MovePos},
		{"move pos rel", 0xB8, (*Module).MovePosRel},
		{"move pos time", 0xB1, (*Module).MovePosTime},
		{"move pos time rel", 0xB9, (*Module).MovePosTimeRel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &scriptChannel{}
			ch.respond(rs232.MsgResponse, []byte{0x03, tt.opcode, 'O', 'K'})

			mod := newTestModule(t, ch)

			est, err := tt.call(mod, context.Background(), 10.0)
			require.NoError(t, err)
			assert.Zero(t, est)
			assert.Equal(t, sentEnvelope([]byte{0x05, tt.opcode, 0x00, 0x00, 0x20, 0x41}), ch.writes.Bytes())
		})
	}
}

func TestModule_MovePosTooManyOptionals(t *testing.T) {
	ch := &scriptChannel{}
	mod := newTestModule(t, ch)

	_, err := mod.MovePos(context.Background(), 1.0, 2, 3, 4, 5, 6)
	require.Error(t, err)
	assert.Zero(t, ch.writes.Len())
}

func TestModule_SetTargets(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		call   func(*Module, context.Context, float64) error
	}{
		{"vel", 0xA0, (*Module).SetTargetVel},
		{"acc", 0xA1, (*Module).SetTargetAcc},
		{"jerk", 0xA2, (*Module).SetTargetJerk},
		{"cur", 0xA3, (*Module).SetTargetCur},
		{"time", 0xA4, (*Module).SetTargetTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &scriptChannel{}
			ch.respond(rs232.MsgResponse, []byte{0x03, tt.opcode, 'O', 'K'})

			mod := newTestModule(t, ch)

			require.NoError(t, tt.call(mod, context.Background(), 12.5))

			want := sentEnvelope(append([]byte{0x05, tt.opcode}, smp.PackFloat32(12.5)...))
			assert.Equal(t, want, ch.writes.Bytes())
		})
	}
}

func TestModule_ToggleImpulseMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
		wantErr bool
	}{
		{"on", []byte("ON"), true, false},
		{"off", []byte("OFF"), false, false},
		{"garbage", []byte("???"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &scriptChannel{}
			frame := append([]byte{byte(1 + len(tt.payload)), 0xE7}, tt.payload...)
			ch.respond(rs232.MsgResponse, frame)

			mod := newTestModule(t, ch)

			on, err := mod.ToggleImpulseMessage(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, smp.ErrUnexpectedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, on)
		})
	}
}

func TestModule_GetState(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{
		0x0F, 0x95,
		0xD6, 0xA3, 0x70, 0x41, // position
		0x56, 0xC9, 0x41, 0x40, // velocity
		0x3C, 0x41, 0xEB, 0x3E, // current
		0x03, 0x00, // status, error
	})

	mod := newTestModule(t, ch)

	state, err := mod.GetState(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 15.039999008178711, state.Position, 1e-12)
	assert.InDelta(t, 3.0279135704040527, state.Velocity, 1e-12)
	assert.InDelta(t, 0.4594820737838745, state.Current, 1e-12)
	assert.True(t, state.Status.Referenced())
	assert.True(t, state.Status.Moving())
	assert.False(t, state.Status.PositionReached())
	assert.Zero(t, state.ErrorCode)

	// Request asks for position, velocity and current with no interval.
	want := sentEnvelope([]byte{0x06, 0x95, 0x00, 0x00, 0x00, 0x00, 0x07})
	assert.Equal(t, want, ch.writes.Bytes())
}

func TestModule_GetStateDeviceError(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x02, 0x88, 0xD9})

	mod := newTestModule(t, ch)

	_, err := mod.GetState(context.Background())

	var devErr *smp.DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, smp.SeverityError, devErr.Severity)
	assert.Equal(t, byte(0xD9), devErr.Code)
	assert.Equal(t, "ERROR EMERGENCY STOP", devErr.Category())
}

func TestModule_ChangeUserLevel(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x04, 0xE3, 'O', 'K', 0x02})

	mod := newTestModule(t, ch)

	level, err := mod.ChangeUserLevel(context.Background(), "Schunk")
	require.NoError(t, err)
	assert.Equal(t, UserLevelProfi, level)
	assert.Equal(t, "Profi", level.String())

	want := sentEnvelope(append([]byte{0x07, 0xE3}, []byte("Schunk")...))
	assert.Equal(t, want, ch.writes.Bytes())
}

func TestModule_ChangeUserLevelDefault(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x04, 0xE3, 'O', 'K', 0x00})

	mod := newTestModule(t, ch)

	level, err := mod.ChangeUserLevel(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, UserLevelUser, level)
	assert.Equal(t, sentEnvelope([]byte{0x01, 0xE3}), ch.writes.Bytes())
}

var commCheckWire = []byte{
	0x19, 0x04, 0x9E, 0xBF, 0xA4, 0x70, 0x3C, 0x42,
	0x44, 0x33, 0x22, 0x11, 0xCC, 0xDD, 0xEE, 0xFF,
	0x00, 0x02, 0xFE, 0xAF,
}

func TestModule_CheckMCPCCommunication(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, append([]byte{0x15, 0xE4}, commCheckWire...))

	mod := newTestModule(t, ch)

	require.NoError(t, mod.CheckMCPCCommunication(context.Background()))
	assert.Equal(t, sentEnvelope([]byte{0x01, 0xE4}), ch.writes.Bytes())
}

func TestModule_CheckMCPCCommunicationCorrupted(t *testing.T) {
	corrupted := append([]byte(nil), commCheckWire...)
	corrupted[8] ^= 0x01

	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, append([]byte{0x15, 0xE4}, corrupted...))

	mod := newTestModule(t, ch)

	err := mod.CheckMCPCCommunication(context.Background())
	require.ErrorIs(t, err, smp.ErrUnexpectedResponse)
}

func TestModule_CheckPCMCCommunication(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x04, 0xE5, 'O', 'K', 0x00})

	mod := newTestModule(t, ch)

	require.NoError(t, mod.CheckPCMCCommunication(context.Background()))

	want := sentEnvelope(append([]byte{0x15, 0xE5}, commCheckWire...))
	assert.Equal(t, want, ch.writes.Bytes())
}

func TestModule_GetDetailedErrorInfo(t *testing.T) {
	ch := &scriptChannel{}
	ch.respond(rs232.MsgResponse, []byte{0x07, 0x96, 0x88, 0xD9, 0x00, 0x00, 0x00, 0x00})

	mod := newTestModule(t, ch)

	detail, err := mod.GetDetailedErrorInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, smp.SeverityError, detail.Severity)
	assert.Equal(t, byte(0xD9), detail.Code)
	assert.Equal(t, "ERROR EMERGENCY STOP", detail.Category())
	assert.Zero(t, detail.Data)
}

func TestModule_TransportErrorPassesThrough(t *testing.T) {
	ch := &scriptChannel{} // no scripted response
	mod := newTestModule(t, ch)

	err := mod.Reference(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, ch.closes)
}
