package motion

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/robomotion/go-smp/internal/util"
	"github.com/robomotion/go-smp/smp"
)

// Parameter describes one configuration value of the module (manual
// §2.3). Most parameters are addressed by a sub-command byte; Blob
// parameters (the EEPROM image) return an opaque byte string instead
// of a fixed-size value.
type Parameter struct {
	Sub      byte
	Field    smp.Field
	Blob     bool
	ReadOnly bool
}

var parameters = map[string]Parameter{
	"module_id":          {Sub: 0x01, Field: smp.Uint8Field},
	"group_id":           {Sub: 0x02, Field: smp.Uint8Field},
	"rs232_baudrate":     {Sub: 0x03, Field: smp.Uint16Field},
	"can_baudrate":       {Sub: 0x04, Field: smp.Uint16Field},
	"communication_mode": {Sub: 0x05, Field: smp.Uint8Field},
	"unit_system":        {Sub: 0x06, Field: smp.Uint8Field},
	"soft_high":          {Sub: 0x07, Field: smp.Float32Field},
	"soft_low":           {Sub: 0x08, Field: smp.Float32Field},
	"max_velocity":       {Sub: 0x09, Field: smp.Float32Field},
	"max_acceleration":   {Sub: 0x0A, Field: smp.Float32Field},
	"max_current":        {Sub: 0x0B, Field: smp.Float32Field},
	"nom_current":        {Sub: 0x0C, Field: smp.Float32Field},
	"max_jerk":           {Sub: 0x0D, Field: smp.Float32Field},
	"offset_phase_a":     {Sub: 0x0E, Field: smp.Uint16Field},
	"offset_phase_b":     {Sub: 0x0F, Field: smp.Uint16Field},
	"data_crc":           {Sub: 0x13, Field: smp.Uint16Field},
	"reference_offset":   {Sub: 0x14, Field: smp.Float32Field},
	"serial_number":      {Sub: 0x15, Field: smp.Uint32Field, ReadOnly: true},
	"order_number":       {Sub: 0x16, Field: smp.Uint32Field, ReadOnly: true},
	"eeprom":             {Sub: 0xFE, Blob: true, ReadOnly: true},
}

// ParameterNames returns the registered parameter names, sorted.
func ParameterNames() []string {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetParam reads one configuration parameter by name (GET CONFIG,
// manual §2.3.2). The returned value's Go type follows the parameter's
// wire format: byte, uint16, uint32, float32 or []byte for blobs.
func (m *Module) GetParam(ctx context.Context, name string) (smp.Value, error) {
	p, ok := parameters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	resp, err := m.exchange(ctx, smp.CmdGetConfig, []byte{p.Sub})
	if err != nil {
		return nil, err
	}

	if len(resp.Payload) < 1 || resp.Payload[0] != p.Sub {
		return nil, fmt.Errorf("%w: sub-command echo missing for %q",
			smp.ErrUnexpectedResponse, name)
	}

	if p.Blob {
		return util.CloneSlice(resp.Payload[1:], 0), nil
	}

	values, err := smp.Format{p.Field}.Unpack(resp.Payload[1:])
	if err != nil {
		return nil, err
	}

	return values[0], nil
}

// SetParam writes one configuration parameter by name (SET CONFIG,
// manual §2.3.1). The device acknowledges a write with "OK" followed
// by the sub-command byte; anything else fails with ErrConfigWrite.
func (m *Module) SetParam(ctx context.Context, name string, value smp.Value) error {
	p, ok := parameters[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if p.ReadOnly {
		return fmt.Errorf("%w: %q", ErrReadOnlyParameter, name)
	}

	payload, err := smp.Format{smp.Uint8Field, p.Field}.Pack(p.Sub, value)
	if err != nil {
		return err
	}

	resp, err := m.exchange(ctx, smp.CmdSetConfig, payload)
	if err != nil {
		return err
	}

	if !bytes.Equal(resp.Payload, append([]byte("OK"), p.Sub)) {
		return fmt.Errorf("%w: %q", ErrConfigWrite, name)
	}

	return nil
}

// CommunicationModeName decodes the communication_mode parameter.
func CommunicationModeName(mode byte) string {
	switch mode {
	case 0x00:
		return "AUTO"
	case 0x01:
		return "RS232"
	case 0x02:
		return "CAN"
	case 0x03:
		return "Profibus DPV0"
	case 0x04:
		return "RS232 Silent"
	default:
		return "unknown"
	}
}

// UnitSystemName decodes the unit_system parameter.
func UnitSystemName(unit byte) string {
	switch unit {
	case 0x00:
		return "[mm]"
	case 0x01:
		return "[m]"
	case 0x02:
		return "[Inch]"
	case 0x03:
		return "[rad]"
	case 0x04:
		return "[Degree]"
	case 0x05:
		return "[Intern]"
	case 0x06:
		return "[µm] Integer"
	case 0x07:
		return "[µDegree] Integer"
	case 0x08:
		return "[µInch] Integer"
	case 0x09:
		return "[Milli-degree] Integer"
	default:
		return "unknown"
	}
}

// Identification is the module identification block returned by a
// GET CONFIG request without a sub-command.
type Identification struct {
	ModuleType      string
	OrderNumber     uint32
	FirmwareVersion uint16
	ProtocolVersion uint16
	HardwareVersion uint16
	FirmwareDate    string
}

// The manual specifies 21 bytes for the date string; PR-70 modules
// return 5 more.
var identFormat = smp.Format{
	smp.BytesField(8),
	smp.Uint32Field,
	smp.Uint16Field,
	smp.Uint16Field,
	smp.Uint16Field,
	smp.BytesField(26),
}

// Identify reads the module identification block (manual §2.3.2).
func (m *Module) Identify(ctx context.Context) (*Identification, error) {
	resp, err := m.exchange(ctx, smp.CmdGetConfig, nil)
	if err != nil {
		return nil, err
	}

	values, err := resp.Unpack(identFormat)
	if err != nil {
		return nil, err
	}

	return &Identification{
		ModuleType:      trimPadding(values[0].([]byte)),
		OrderNumber:     values[1].(uint32),
		FirmwareVersion: values[2].(uint16),
		ProtocolVersion: values[3].(uint16),
		HardwareVersion: values[4].(uint16),
		FirmwareDate:    trimPadding(values[5].([]byte)),
	}, nil
}

func trimPadding(b []byte) string {
	return string(bytes.TrimRight(b, "\x00 "))
}
