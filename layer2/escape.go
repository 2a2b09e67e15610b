package layer2

// DecodeEscape maps the octet following an ESC byte-stuffing prefix to
// the sentinel it stands for. ok is false when the continuation is
// anything other than 0x00 or 0x01 — a byte-stuffing violation.
func DecodeEscape(c byte) (v byte, ok bool) {
	switch c {
	case 0x00:
		return ESC, true
	case 0x01:
		return SYN, true
	default:
		return 0, false
	}
}
