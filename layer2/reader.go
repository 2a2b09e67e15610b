package layer2

/*------------------------------------------------------------------
 *
 * Purpose:	Push-driven state machine reconstructing eBUS telegrams
 *		one octet at a time.
 *
 * Description:	BusReader.ReadByte is the only entry point.  It never
 *		blocks, never allocates, and never returns an error —
 *		every framing anomaly is handled locally by resyncing to
 *		Syn (or, for a mid-frame SYN, straight to Source).  This
 *		mirrors the upstream reference: a noisy half-duplex bus
 *		makes silent resync the only sane local recovery, and
 *		loss is detected by the caller via timeout or a sequence
 *		gap, not by an error return here.
 *
 *------------------------------------------------------------------*/

// BusReader incrementally decodes a stream of octets into Packet
// values. The zero value is not usable; construct with NewBusReader.
type BusReader struct {
	expect Component
	pkt    Packet

	frameComplete bool
	frameCount    uint64
}

// NewBusReader returns a reader primed to wait for the first SYN.
// Allocation-free: the packet buffer is inline.
func NewBusReader() *BusReader {
	return &BusReader{expect: CompSyn}
}

// Expect reports the component the reader is currently waiting for.
func (r *BusReader) Expect() Component {
	return r.expect
}

// Packet returns a snapshot of the packet buffer as it stands right
// now. Safe to call between ReadByte invocations; the returned value
// does not alias reader-owned storage.
func (r *BusReader) Packet() Packet {
	return r.pkt
}

// IsFrameComplete reports whether the byte just fed to ReadByte was the
// one that closed out a telegram (broadcast post-CRC, a master-to-master
// ACK, a negative SlaveAck, or the final MasterAck of a master-to-slave
// exchange). It is an
// edge, not a level: it goes false again on the very next ReadByte call
// unless that call itself completes another frame.
func (r *BusReader) IsFrameComplete() bool {
	return r.frameComplete
}

// FrameCount is the number of telegrams fully decoded since
// construction.
func (r *BusReader) FrameCount() uint64 {
	return r.frameCount
}

func (r *BusReader) reset() {
	r.expect = CompSyn
}

func (r *BusReader) completeFrame() {
	r.reset()
	r.frameComplete = true
	r.frameCount++
}

func (r *BusReader) resyncOnUnexpectedSyn() {
	r.reset()
	r.expect = CompSource
}

func (r *BusReader) resyncOnUnexpectedByte() {
	r.reset()
}

// ReadByte feeds one more octet from the wire into the state machine.
func (r *BusReader) ReadByte(b byte) {
	r.frameComplete = false

	// Universal pre-rule: an unsolicited SYN outside {Syn, Source} is a
	// hard resync point. It both aborts whatever was in flight and
	// pre-arms the next byte as a fresh Source.
	if b == SYN && r.expect != CompSyn && r.expect != CompSource {
		r.resyncOnUnexpectedSyn()
		return
	}

	switch r.expect {
	case CompSyn:
		r.onSyn(b)
	case CompSource:
		r.onSource(b)
	case CompDestination:
		r.onDestination(b)
	case CompPrimary:
		r.pkt.Primary = b
		r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
		r.expect = CompSecondary
	case CompSecondary:
		r.pkt.Secondary = b
		r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
		r.expect = CompMasterPayloadLength
	case CompMasterPayloadLength:
		r.onPayloadLength(b, true)
	case CompMasterPayload:
		r.onPayload(b, true)
	case CompMasterEscapedPayload:
		r.onEscapedPayload(b, true)
	case CompMasterCrc:
		r.onCrcByte(b, true)
	case CompMasterEscapedCrc:
		r.onEscapedCrcByte(b, true)
	case CompSlaveAck:
		r.onSlaveAck(b)
	case CompSlavePayloadLength:
		r.onPayloadLength(b, false)
	case CompSlavePayload:
		r.onPayload(b, false)
	case CompSlaveEscapedPayload:
		r.onEscapedPayload(b, false)
	case CompSlaveCrc:
		r.onCrcByte(b, false)
	case CompSlaveEscapedCrc:
		r.onEscapedCrcByte(b, false)
	case CompMasterAck:
		r.onMasterAck(b)
	}
}

func (r *BusReader) onSyn(b byte) {
	if b == SYN {
		r.expect = CompSource
	}
	// else: ignore, stay waiting for Syn.
}

func (r *BusReader) onSource(b byte) {
	if b == SYN {
		return // idle sync: already welcomed by onSyn's sibling case above.
	}

	class := Classify(b)
	if !class.IsMaster() {
		r.resyncOnUnexpectedByte()
		return
	}

	r.pkt.Source = b
	r.pkt.ComputedMasterCrc = 0
	r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
	r.expect = CompDestination
}

func (r *BusReader) onDestination(b byte) {
	if Classify(b).Kind == KindInvalid {
		r.resyncOnUnexpectedByte()
		return
	}

	r.pkt.Destination = b
	r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
	r.expect = CompPrimary
}

// onPayloadLength handles MasterPayloadLength and SlavePayloadLength,
// which are mirror images save for which CRC register gets reset: the
// slave CRC is (re)initialised here because there is no "slave source"
// byte to do it earlier, while the master CRC was already reset when
// Source was accepted.
func (r *BusReader) onPayloadLength(b byte, master bool) {
	if int(b) > MaxPayloadLen {
		r.resyncOnUnexpectedByte()
		return
	}

	if master {
		r.pkt.MasterPayloadLength = b
		r.pkt.clearMasterPayload()
		r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
	} else {
		r.pkt.SlavePayloadLength = b
		r.pkt.clearSlavePayload()
		r.pkt.ComputedSlaveCrc = 0
		r.pkt.ComputedSlaveCrc = Stack(r.pkt.ComputedSlaveCrc, b)
	}

	if b == 0 {
		r.expect = nextCrcState(master)
	} else {
		r.expect = nextPayloadState(master)
	}
}

func nextCrcState(master bool) Component {
	if master {
		return CompMasterCrc
	}

	return CompSlaveCrc
}

func nextPayloadState(master bool) Component {
	if master {
		return CompMasterPayload
	}

	return CompSlavePayload
}

func nextEscapedPayloadState(master bool) Component {
	if master {
		return CompMasterEscapedPayload
	}

	return CompSlaveEscapedPayload
}

func nextEscapedCrcState(master bool) Component {
	if master {
		return CompMasterEscapedCrc
	}

	return CompSlaveEscapedCrc
}

func (r *BusReader) remaining(master bool) int {
	if master {
		return int(r.pkt.MasterPayloadLength) - r.pkt.masterPayloadLen
	}

	return int(r.pkt.SlavePayloadLength) - r.pkt.slavePayloadLen
}

func (r *BusReader) stackPayloadCrc(master bool, b byte) {
	if master {
		r.pkt.ComputedMasterCrc = Stack(r.pkt.ComputedMasterCrc, b)
	} else {
		r.pkt.ComputedSlaveCrc = Stack(r.pkt.ComputedSlaveCrc, b)
	}
}

func (r *BusReader) pushPayload(master bool, b byte) {
	if master {
		r.pkt.pushMaster(b)
	} else {
		r.pkt.pushSlave(b)
	}
}

// onPayload handles MasterPayload / SlavePayload. remain<=0 here would
// mean the buffer already holds the announced length, which the length
// handler above should have made impossible; treat it defensively as a
// resync rather than trust the invariant blindly.
func (r *BusReader) onPayload(b byte, master bool) {
	r.stackPayloadCrc(master, b)

	remain := r.remaining(master)
	if remain <= 0 {
		r.resyncOnUnexpectedByte()
		return
	}

	if b == ESC {
		r.expect = nextEscapedPayloadState(master)
		return
	}

	r.pushPayload(master, b)

	if remain == 1 {
		r.expect = nextCrcState(master)
	} else {
		r.expect = nextPayloadState(master)
	}
}

func (r *BusReader) onEscapedPayload(b byte, master bool) {
	decoded, ok := DecodeEscape(b)
	if !ok {
		r.resyncOnUnexpectedByte()
		return
	}

	remain := r.remaining(master)
	if remain <= 0 {
		r.resyncOnUnexpectedByte()
		return
	}

	// The wire byte (the escape continuation) is stacked, not the
	// decoded value: the CRC runs over what was actually transmitted.
	r.stackPayloadCrc(master, b)
	r.pushPayload(master, decoded)

	if remain <= 1 {
		r.expect = nextCrcState(master)
	} else {
		r.expect = nextPayloadState(master)
	}
}

func (r *BusReader) onCrcByte(b byte, master bool) {
	if b == ESC {
		r.expect = nextEscapedCrcState(master)
		return
	}

	if master {
		r.onMasterCrc(b)
	} else {
		r.onSlaveCrc(b)
	}
}

func (r *BusReader) onEscapedCrcByte(b byte, master bool) {
	decoded, ok := DecodeEscape(b)
	if !ok {
		r.resyncOnUnexpectedByte()
		return
	}

	if master {
		r.onMasterCrc(decoded)
	} else {
		r.onSlaveCrc(decoded)
	}
}

// onMasterCrc records the received master CRC and branches on the
// class of the destination address, as spec.md §4.4's post-master-CRC
// branch describes. Destination was validated non-Invalid back when it
// was accepted, so that case cannot occur here; a defensive resync
// replaces the reference implementation's panic (spec.md §9).
func (r *BusReader) onMasterCrc(crc byte) {
	r.pkt.MasterCrc = crc

	switch Classify(r.pkt.Destination).Kind {
	case KindInvalid:
		r.resyncOnUnexpectedByte()
	case KindBroadcast:
		r.completeFrame()
	default:
		r.expect = CompSlaveAck
	}
}

func (r *BusReader) onSlaveCrc(crc byte) {
	r.pkt.SlaveCrc = crc
	r.expect = CompMasterAck
}

func (r *BusReader) onSlaveAck(b byte) {
	class := Classify(r.pkt.Destination)

	switch {
	case class.Kind == KindInvalid || class.Kind == KindBroadcast:
		// The Destination and MasterCrc handlers already excluded
		// these; defensively resync rather than trust it blindly.
		r.resyncOnUnexpectedByte()
	case b == ACKOK && class.Kind == KindMaster:
		r.completeFrame() // master-to-master exchange, done after one ACK
	case b == ACKOK && (class.Kind == KindSlave || class.Kind == KindMasterSlave):
		r.expect = CompSlavePayloadLength
	case b == ACKKO:
		r.completeFrame() // NACK ends the exchange; not a framing error
	default:
		r.resyncOnUnexpectedByte()
	}
}

func (r *BusReader) onMasterAck(b byte) {
	switch b {
	case ACKOK, ACKKO:
		r.completeFrame()
	default:
		r.resyncOnUnexpectedByte()
	}
}
