package rs232

import (
	"fmt"
	"time"

	"github.com/robomotion/go-smp/logger"
)

// Defaults for the serial line. 9600 baud 8N1 is the module's factory
// setting.
const (
	DefaultBaudRate    = 9600
	DefaultReadTimeout = 10 * time.Second
)

// ConnectionConfig holds all configuration for talking to one module
// over a serial line.
type ConnectionConfig struct {
	portName string

	// address is the module's bus address, validated on every received
	// envelope.
	address byte

	baudRate    int
	readTimeout time.Duration

	// transport overrides the serial transport; used for tests and
	// alternate byte channels.
	transport Transport

	logger logger.Logger
}

// NewConnectionConfig creates a connection configuration for a module
// address reachable via the given serial port.
//
// opts are functional options applied in order; see With* functions.
func NewConnectionConfig(portName string, address byte, opts ...ConnOption) (*ConnectionConfig, error) {
	if address == 0 {
		return nil, fmt.Errorf("rs232: module address must be nonzero")
	}

	cfg := &ConnectionConfig{
		portName:    portName,
		address:     address,
		baudRate:    DefaultBaudRate,
		readTimeout: DefaultReadTimeout,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ConnOption configures a ConnectionConfig.
type ConnOption interface {
	apply(cfg *ConnectionConfig) error
}

type connOptFunc func(cfg *ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error {
	return f(cfg)
}

// WithBaudRate sets the serial baud rate. The module's factory setting
// is 9600.
func WithBaudRate(baudRate int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if baudRate <= 0 {
			return fmt.Errorf("rs232: invalid baud rate %d", baudRate)
		}
		cfg.baudRate = baudRate

		return nil
	})
}

// WithReadTimeout sets the channel read timeout. It must be long
// enough to span the idle gap of a blocking motion call, otherwise the
// wait fails spuriously with ErrTransport.
func WithReadTimeout(timeout time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("rs232: invalid read timeout %v", timeout)
		}
		cfg.readTimeout = timeout

		return nil
	})
}

// WithTransport replaces the serial transport with a custom one. The
// port name and baud rate are ignored when a transport is supplied.
func WithTransport(transport Transport) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if transport == nil {
			return fmt.Errorf("rs232: transport is nil")
		}
		cfg.transport = transport

		return nil
	})
}

// WithLogger sets the logger for connection and session traces.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return fmt.Errorf("rs232: logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
