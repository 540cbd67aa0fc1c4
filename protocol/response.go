package protocol

// ReplyWidth returns the response payload width in hex digits for a
// command code, or 0 for commands that return an empty reply.
func ReplyWidth(cmd byte) int {
	switch cmd {
	case 'e', 'a', 'b', 's', 'j', 'n', 'x', 'q':
		return 6
	case 'f':
		return 3
	case 'g', 'c', 'd', 'z':
		return 2
	}
	return 0
}

// AssembleReply builds the success packet for a command: the reply
// leader, the value at the command's fixed width, and the terminator.
func AssembleReply(cmd byte, value uint32) string {
	w := ReplyWidth(cmd)
	if w == 0 {
		return string(ReplyLeader) + string(Terminator)
	}
	return string(ReplyLeader) + EncodeHex(value, w) + string(Terminator)
}

// AssembleError builds the distinguishable error packet.
func AssembleError(code byte) string {
	return string(ErrorLeader) + string(code) + string(Terminator)
}
