package layer2

import "fmt"

/*------------------------------------------------------------------
 *
 * Purpose:	The fields accumulated while decoding one telegram.
 *
 * Description:	Payload storage is a fixed-capacity array, not a slice
 *		append target backed by the heap — the reader never
 *		allocates once constructed, per spec.md §5.
 *
 *------------------------------------------------------------------*/

// Packet holds everything decoded so far for the telegram currently (or
// most recently) in flight. The reader exclusively owns its Packet;
// callers should treat a value returned by BusReader.Packet as a
// point-in-time snapshot.
type Packet struct {
	Source      byte
	Destination byte
	Primary     byte
	Secondary   byte

	MasterPayloadLength byte
	MasterPayload       [MaxPayloadLen]byte
	masterPayloadLen    int // bytes actually pushed so far
	ComputedMasterCrc   byte
	MasterCrc           byte

	SlavePayloadLength byte
	SlavePayload       [MaxPayloadLen]byte
	slavePayloadLen    int
	ComputedSlaveCrc   byte
	SlaveCrc           byte
}

// MasterPayloadBytes returns the portion of MasterPayload actually
// filled so far.
func (p *Packet) MasterPayloadBytes() []byte {
	return p.MasterPayload[:p.masterPayloadLen]
}

// SlavePayloadBytes returns the portion of SlavePayload actually filled
// so far.
func (p *Packet) SlavePayloadBytes() []byte {
	return p.SlavePayload[:p.slavePayloadLen]
}

func (p *Packet) clearMasterPayload() {
	p.masterPayloadLen = 0
}

func (p *Packet) clearSlavePayload() {
	p.slavePayloadLen = 0
}

func (p *Packet) pushMaster(b byte) {
	p.MasterPayload[p.masterPayloadLen] = b
	p.masterPayloadLen++
}

func (p *Packet) pushSlave(b byte) {
	p.SlavePayload[p.slavePayloadLen] = b
	p.slavePayloadLen++
}

func (p Packet) String() string {
	if p.SlavePayloadLength > 0 {
		return fmt.Sprintf(
			"Packet{src:%#02x dst:%#02x pb:%#02x sb:%#02x master=%#02x/%#02x slave=%#02x/%#02x}",
			p.Source, p.Destination, p.Primary, p.Secondary,
			p.ComputedMasterCrc, p.MasterCrc,
			p.ComputedSlaveCrc, p.SlaveCrc,
		)
	}

	return fmt.Sprintf(
		"Packet{src:%#02x dst:%#02x pb:%#02x sb:%#02x master=%#02x/%#02x}",
		p.Source, p.Destination, p.Primary, p.Secondary,
		p.ComputedMasterCrc, p.MasterCrc,
	)
}
