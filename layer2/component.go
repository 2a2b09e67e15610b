package layer2

// Component names the octet the reader currently expects next.
type Component int

const (
	CompSyn Component = iota
	CompSource
	CompDestination
	CompPrimary
	CompSecondary
	CompMasterPayloadLength
	CompMasterPayload
	CompMasterEscapedPayload
	CompMasterEscapedCrc
	CompMasterCrc
	CompSlaveAck
	CompSlavePayloadLength
	CompSlavePayload
	CompSlaveEscapedPayload
	CompSlaveEscapedCrc
	CompSlaveCrc
	CompMasterAck
)

func (c Component) String() string {
	switch c {
	case CompSyn:
		return "Syn"
	case CompSource:
		return "Source"
	case CompDestination:
		return "Destination"
	case CompPrimary:
		return "Primary"
	case CompSecondary:
		return "Secondary"
	case CompMasterPayloadLength:
		return "MasterPayloadLength"
	case CompMasterPayload:
		return "MasterPayload"
	case CompMasterEscapedPayload:
		return "MasterEscapedPayload"
	case CompMasterEscapedCrc:
		return "MasterEscapedCrc"
	case CompMasterCrc:
		return "MasterCrc"
	case CompSlaveAck:
		return "SlaveAck"
	case CompSlavePayloadLength:
		return "SlavePayloadLength"
	case CompSlavePayload:
		return "SlavePayload"
	case CompSlaveEscapedPayload:
		return "SlaveEscapedPayload"
	case CompSlaveEscapedCrc:
		return "SlaveEscapedCrc"
	case CompSlaveCrc:
		return "SlaveCrc"
	case CompMasterAck:
		return "MasterAck"
	default:
		return "Unknown"
	}
}
