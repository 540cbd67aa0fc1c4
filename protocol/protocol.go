// Package protocol implements the logical payload layer of the mount
// command protocol: fixed-width hexadecimal values with reversed byte
// order, and response packet assembly. Byte-level framing of the
// serial link lives with the transport, not here.
package protocol

// Version is the firmware version reported by the 'e' command,
// matching the numbering scheme the host-side mount drivers expect.
const Version uint32 = 751

// Command packet leader and response leaders.
const (
	CmdLeader   = ':'
	ReplyLeader = '='
	ErrorLeader = '!'
	Terminator  = '\r'
)

// Error codes carried in an error response.
const (
	ErrCodeUnknownCmd = '0'
	ErrCodeBadValue   = '1'
	ErrCodeNotStopped = '2'
	ErrCodeBadPayload = '3'
)
