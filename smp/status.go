package smp

import "strings"

// Status is the module status bitfield from the GET STATE response.
type Status byte

// Status bits (manual §2.5.1).
const (
	StatusReferenced      Status = 1 << 0
	StatusMoving          Status = 1 << 1
	StatusProgramMode     Status = 1 << 2
	StatusWarning         Status = 1 << 3
	StatusError           Status = 1 << 4
	StatusBrake           Status = 1 << 5
	StatusMoveEnd         Status = 1 << 6
	StatusPositionReached Status = 1 << 7
)

// Referenced reports whether the module has completed a reference move.
func (s Status) Referenced() bool { return s&StatusReferenced != 0 }

// Moving reports whether the module is currently in motion.
func (s Status) Moving() bool { return s&StatusMoving != 0 }

// ProgramMode reports whether the module is executing a stored program.
func (s Status) ProgramMode() bool { return s&StatusProgramMode != 0 }

// Warning reports whether a warning is pending.
func (s Status) Warning() bool { return s&StatusWarning != 0 }

// Error reports whether an error is pending.
func (s Status) Error() bool { return s&StatusError != 0 }

// Brake reports whether the brake is engaged.
func (s Status) Brake() bool { return s&StatusBrake != 0 }

// MoveEnd reports whether the last motion command has ended.
func (s Status) MoveEnd() bool { return s&StatusMoveEnd != 0 }

// PositionReached reports whether the target position has been reached.
func (s Status) PositionReached() bool { return s&StatusPositionReached != 0 }

var statusNames = []struct {
	bit  Status
	name string
}{
	{StatusReferenced, "referenced"},
	{StatusMoving, "moving"},
	{StatusProgramMode, "program_mode"},
	{StatusWarning, "warning"},
	{StatusError, "error"},
	{StatusBrake, "brake"},
	{StatusMoveEnd, "move_end"},
	{StatusPositionReached, "position_reached"},
}

// String lists the set status bits, e.g. "referenced|position_reached".
// An all-clear status renders as "none".
func (s Status) String() string {
	if s == 0 {
		return "none"
	}

	names := make([]string, 0, 8)
	for _, entry := range statusNames {
		if s&entry.bit != 0 {
			names = append(names, entry.name)
		}
	}

	return strings.Join(names, "|")
}
