package smp

import "fmt"

// Command codes per the Schunk Motion Protocol manual.
const (
	// Motion commands (manual §2.1).
	CmdReference      byte = 0x92 // CMD REFERENCE
	CmdMovePos        byte = 0xB0 // MOVE POS (absolute)
	CmdMovePosTime    byte = 0xB1 // MOVE POS TIME
	CmdMovePosRel     byte = 0xB8 // MOVE POS REL (relative)
	CmdMovePosTimeRel byte = 0xB9 // MOVE POS TIME REL
	CmdSetTargetVel   byte = 0xA0 // SET TARGET VEL
	CmdSetTargetAcc   byte = 0xA1 // SET TARGET ACC
	CmdSetTargetJerk  byte = 0xA2 // SET TARGET JERK
	CmdSetTargetCur   byte = 0xA3 // SET TARGET CUR
	CmdSetTargetTime  byte = 0xA4 // SET TARGET TIME
	CmdStop           byte = 0x91 // CMD STOP

	// CmdEmergencyStop is defined for completeness only. The manual
	// warns against issuing it from application code, so the motion
	// package does not expose an operation for it.
	CmdEmergencyStop byte = 0x90

	// Impulse messages (manual §2.2).
	CmdToggleImpulseMessage byte = 0xE7 // CMD TOGGLE IMPULSE MESSAGE
	CmdPosReached           byte = 0x94 // CMD POS REACHED (unsolicited)

	// Configuration (manual §2.3).
	CmdGetConfig byte = 0x80 // GET CONFIG
	CmdSetConfig byte = 0x81 // SET CONFIG

	// Status and service (manual §2.5).
	CmdGetState        byte = 0x95 // GET STATE
	CmdReboot          byte = 0xE0 // CMD REBOOT
	CmdChangeUserLevel byte = 0xE3 // CHANGE USER LEVEL
	CmdCheckMCPC       byte = 0xE4 // CHECK MC PC COMMUNICATION
	CmdCheckPCMC       byte = 0xE5 // CHECK PC MC COMMUNICATION

	// Error handling (manual §2.8).
	CmdAck                  byte = 0x8B // CMD ACK
	CmdGetDetailedErrorInfo byte = 0x96 // GET DETAILED ERROR INFO

	// Error echo opcodes. A response frame carrying one of these (with
	// D-Len == 2) reports a device error, warning or info event.
	CmdError   byte = 0x88 // CMD ERROR
	CmdWarning byte = 0x89 // CMD WARNING
	CmdInfo    byte = 0x8A // CMD INFO
)

// MaxPayloadSize is the maximum command payload length. D-Len is a
// single byte counting opcode + payload, so the payload is capped at
// 254 bytes.
const MaxPayloadSize = 254

// Command is one logical command to a module: an opcode and an already
// serialized payload. Commands are immutable and constructed per call.
type Command struct {
	Opcode  byte
	Payload []byte
}

// Frame encodes the command as [D-Len][Opcode][Payload...].
func (c Command) Frame() ([]byte, error) {
	return EncodeFrame(c.Opcode, c.Payload)
}

// EncodeFrame builds a frame from an opcode and payload:
// [D-Len][Opcode][Payload...] with D-Len == 1 + len(payload).
func EncodeFrame(opcode byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload length %d exceeds %d",
			ErrFrame, len(payload), MaxPayloadSize)
	}

	frame := make([]byte, 0, 2+len(payload))
	frame = append(frame, byte(1+len(payload)), opcode)
	frame = append(frame, payload...)

	return frame, nil
}
