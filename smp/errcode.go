package smp

// errorCategories maps device error codes to the category strings from
// the Schunk Motion Protocol manual (§2.8). Code 0x00 is not in the
// manual; it is included so a zero error code decodes readably.
//
// The manual lists 0xE4 twice, as "ERROR TOO FAST" and again as
// "ERROR COMMUTATION". The later row wins here, deterministically;
// see DESIGN.md.
var errorCategories = map[byte]string{
	0x00: "NO ERROR",
	0x01: "INFO BOOT",
	0x02: "INFO NO FREE SPACE",
	0x03: "INFO NO RIGHTS",
	0x04: "INFO UNKNOWN COMMAND",
	0x05: "INFO FAILED",
	0x06: "NOT REFERENCED",
	0x07: "INFO SEARCH SINE VECTOR",
	0x08: "INFO NO ERROR",
	0x09: "INFO COMMUNICATION ERROR",
	0x10: "INFO TIMEOUT",
	0x16: "INFO WRONG BAUDRATE",
	0x19: "INFO CHECKSUM",
	0x1D: "INFO MESSAGE LENGTH",
	0x1E: "INFO WRONG PARAMETER",
	0x1F: "INFO PROGRAM END",
	0x40: "INFO TRIGGER",
	0x41: "INFO READY",
	0x42: "INFO GUI CONNECTED",
	0x43: "INFO GUI DISCONNECTED",
	0x44: "INFO PROGRAM CHANGED",
	0x70: "ERROR TEMP LOW",
	0x71: "ERROR TEMP HIGH",
	0x72: "ERROR LOGIC LOW",
	0x73: "ERROR LOGIC HIGH",
	0x74: "ERROR MOTOR VOLTAGE LOW",
	0x75: "ERROR MOTOR VOLTAGE HIGH",
	0x76: "ERROR CABLE BREAK",
	0x78: "ERROR MOTOR TEMP",
	0xC8: "ERROR WRONG RAMP TYPE",
	0xD2: "ERROR CONFIG MEMORY",
	0xD3: "ERROR PROGRAM MEMORY",
	0xD4: "ERROR INVALID PHRASE",
	0xD5: "ERROR SOFT LOW",
	0xD6: "ERROR SOFT HIGH",
	0xD7: "ERROR PRESSURE",
	0xD8: "ERROR SERVICE",
	0xD9: "ERROR EMERGENCY STOP",
	0xDA: "ERROR TOW",
	0xDB: "ERROR VPC3",
	0xDC: "ERROR FRAGMENTATION",
	0xDE: "ERROR CURRENT",
	0xDF: "ERROR I2T",
	0xE0: "ERROR INITIALIZE",
	0xE1: "ERROR INTERNAL",
	0xE2: "ERROR HARD LOW",
	0xE3: "ERROR HARD HIGH",
	0xE4: "ERROR COMMUTATION", // manual also lists 0xE4 as "ERROR TOO FAST"
	0xEC: "ERROR MATH",
}

// ErrorCategory returns the manual's category string for a device
// error code, or "UNKNOWN" if the code is not listed. The severity of
// an event is never derived from this table; it comes from the echo
// opcode of the response frame.
func ErrorCategory(code byte) string {
	if category, ok := errorCategories[code]; ok {
		return category
	}

	return "UNKNOWN"
}
