package layer2

import "fmt"

/*------------------------------------------------------------------
 *
 * Purpose:	Classify an eBUS address octet.
 *
 * Description:	An address is a pair of nibbles.  It is a master
 *		address when both nibbles are drawn from the sparse
 *		priority set {0x0,0x1,0x3,0x7,0xF}.  A master-slave
 *		address is a shadow five below a master address; any
 *		other non-reserved octet is a plain slave.
 *
 *------------------------------------------------------------------*/

// masterNibbles is the priority set. Order matters: a Master's priority
// is the index of its low nibble within this set.
var masterNibbles = [5]byte{0x00, 0x01, 0x03, 0x07, 0x0F}

func nibbleIndex(n byte) (int, bool) {
	for i, m := range masterNibbles {
		if m == n {
			return i, true
		}
	}

	return 0, false
}

// Kind distinguishes the five address classes.
type Kind int

const (
	KindMaster Kind = iota
	KindMasterSlave
	KindSlave
	KindBroadcast
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindMaster:
		return "Master"
	case KindMasterSlave:
		return "MasterSlave"
	case KindSlave:
		return "Slave"
	case KindBroadcast:
		return "Broadcast"
	case KindInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// AddressClass is the result of Classify: a Kind plus whatever payload
// that kind carries (a master's priority, or a master-slave's master
// address).
type AddressClass struct {
	Kind     Kind
	Priority byte // valid when Kind == KindMaster
	Master   byte // valid when Kind == KindMasterSlave
}

func (a AddressClass) String() string {
	switch a.Kind {
	case KindMaster:
		return fmt.Sprintf("Master(%#x)", a.Priority)
	case KindMasterSlave:
		return fmt.Sprintf("MasterSlave(%#02x)", a.Master)
	default:
		return a.Kind.String()
	}
}

// IsMaster reports whether the address is a plain Master (MasterSlave
// does not count) — the one address class that is legal as a telegram
// Source.
func (a AddressClass) IsMaster() bool {
	return a.Kind == KindMaster
}

// classifyDepth bounds the recursion spec.md §9 calls out. Only the first
// level decides the result (whether c-5 is a Master needs no recursion),
// so stopping after two levels (reached by e.g. 0x20) loses nothing.
const classifyDepth = 2

// Classify maps an octet to its AddressClass. It is total and
// deterministic over 0..255, per spec.md's invariant.
func Classify(c byte) AddressClass {
	return classify(c, classifyDepth)
}

func classify(c byte, depth int) AddressClass {
	if c == SYN || c == ESC {
		return AddressClass{Kind: KindInvalid}
	}

	if c == BroadcastAddress {
		return AddressClass{Kind: KindBroadcast}
	}

	hi := c >> 4
	if _, isMasterHi := nibbleIndex(hi); !isMasterHi {
		return shadowOrSlave(c, depth)
	}

	lo := c & 0x0F
	if p, isMasterLo := nibbleIndex(lo); isMasterLo {
		return AddressClass{Kind: KindMaster, Priority: byte(p)}
	}

	return shadowOrSlave(c, depth)
}

// shadowOrSlave evaluates the c-5 recursion a non-master address needs:
// c is MasterSlave(c-5) when that shadow is itself a Master, else Slave.
// Subtraction is unsigned and intentionally wraps for c < 5, matching
// the reference implementation. The wrapped shadow is classified like
// any other octet: 0x04 wraps to the Master 0xFF, so Classify(0x04) is
// MasterSlave(0xFF), while 0x02 wraps to 0xFD and stays Slave.
func shadowOrSlave(c byte, depth int) AddressClass {
	if depth == 0 {
		return AddressClass{Kind: KindSlave}
	}

	shadow := c - 5
	if classify(shadow, depth-1).Kind == KindMaster {
		return AddressClass{Kind: KindMasterSlave, Master: shadow}
	}

	return AddressClass{Kind: KindSlave}
}
