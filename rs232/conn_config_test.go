package rs232

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robomotion/go-smp/logger"
)

func TestNewConnectionConfig_Defaults(t *testing.T) {
	cfg, err := NewConnectionConfig("/dev/ttyUSB0", 0x0B)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.portName)
	assert.Equal(t, byte(0x0B), cfg.address)
	assert.Equal(t, DefaultBaudRate, cfg.baudRate)
	assert.Equal(t, DefaultReadTimeout, cfg.readTimeout)
	assert.NotNil(t, cfg.logger)
	assert.Nil(t, cfg.transport)
}

func TestNewConnectionConfig_Options(t *testing.T) {
	transport := &fakeTransport{ch: &fakeChannel{}}

	cfg, err := NewConnectionConfig("/dev/ttyUSB1", 0x2A,
		WithBaudRate(57600),
		WithReadTimeout(30*time.Second),
		WithTransport(transport),
		WithLogger(logger.NewMockLogger()),
	)
	require.NoError(t, err)

	assert.Equal(t, 57600, cfg.baudRate)
	assert.Equal(t, 30*time.Second, cfg.readTimeout)
	assert.Same(t, Transport(transport), cfg.transport)
}

func TestNewConnectionConfig_Invalid(t *testing.T) {
	_, err := NewConnectionConfig("/dev/ttyUSB0", 0)
	require.Error(t, err, "address 0 must be rejected")

	_, err = NewConnectionConfig("/dev/ttyUSB0", 0x0B, WithBaudRate(0))
	require.Error(t, err)

	_, err = NewConnectionConfig("/dev/ttyUSB0", 0x0B, WithBaudRate(-9600))
	require.Error(t, err)

	_, err = NewConnectionConfig("/dev/ttyUSB0", 0x0B, WithReadTimeout(0))
	require.Error(t, err)

	_, err = NewConnectionConfig("/dev/ttyUSB0", 0x0B, WithTransport(nil))
	require.Error(t, err)

	_, err = NewConnectionConfig("/dev/ttyUSB0", 0x0B, WithLogger(nil))
	require.Error(t, err)
}

func TestNewConnection_NilConfig(t *testing.T) {
	_, err := NewConnection(nil)
	require.Error(t, err)
}
