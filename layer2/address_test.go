package layer2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_Classify_MasterAddressIsRecognized(t *testing.T) {
	c := Classify(0x0F)
	assert.Equal(t, KindMaster, c.Kind)
	assert.Equal(t, byte(4), c.Priority)
}

func Test_Classify_MasterSlaveAddressIsRecognized(t *testing.T) {
	c := Classify(0x15)
	assert.Equal(t, KindMasterSlave, c.Kind)
	assert.Equal(t, byte(0x10), c.Master)
}

func Test_Classify_SlaveAddressIsRecognized(t *testing.T) {
	assert.Equal(t, KindSlave, Classify(0x20).Kind)
}

func Test_Classify_InvalidAddressIsRecognized(t *testing.T) {
	assert.Equal(t, KindInvalid, Classify(SYN).Kind)
	assert.Equal(t, KindInvalid, Classify(ESC).Kind)
}

func Test_Classify_Broadcast(t *testing.T) {
	assert.Equal(t, KindBroadcast, Classify(BroadcastAddress).Kind)
}

// P4: Classify(c) is Invalid iff c in {SYN, ESC}, Broadcast iff c == 0xFE.
func Test_Classify_P4_InvalidAndBroadcastAreExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := byte(rapid.IntRange(0, 255).Draw(t, "c"))

		class := Classify(c)

		wantInvalid := c == SYN || c == ESC
		assert.Equal(t, wantInvalid, class.Kind == KindInvalid, "c=%#02x", c)

		wantBroadcast := c == BroadcastAddress
		assert.Equal(t, wantBroadcast, class.Kind == KindBroadcast, "c=%#02x", c)
	})
}

// P5: Classify(c) = Master(p) iff both nibbles are in the priority set,
// with p the index of the low nibble within it.
func Test_Classify_P5_MasterIffBothNibblesInSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := byte(rapid.IntRange(0, 255).Draw(t, "c"))

		hiIdx, hiOK := nibbleIndex(c >> 4)
		loIdx, loOK := nibbleIndex(c & 0x0F)

		class := Classify(c)

		if c == SYN || c == ESC || c == BroadcastAddress {
			return // these short-circuit before the nibble test
		}

		if hiOK && loOK {
			assert.Equal(t, KindMaster, class.Kind, "c=%#02x", c)
			assert.Equal(t, byte(loIdx), class.Priority)
		} else {
			assert.NotEqual(t, KindMaster, class.Kind, "c=%#02x", c)
		}

		_ = hiIdx
	})
}

// P6: for any master address m, Classify(m+5) = MasterSlave(m).
func Test_Classify_P6_ShadowFiveAboveMaster(t *testing.T) {
	for m := 0; m <= 255; m++ {
		if Classify(byte(m)).Kind != KindMaster {
			continue
		}

		shadow := byte(m + 5) //nolint:gosec // intentional wraparound, mirrors the reference

		got := Classify(shadow)
		assert.Equal(t, KindMasterSlave, got.Kind, "m=%#02x shadow=%#02x", m, shadow)
		assert.Equal(t, byte(m), got.Master)
	}
}

func Test_Classify_IsTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := byte(rapid.IntRange(0, 255).Draw(t, "c"))
		class := Classify(c)

		switch class.Kind {
		case KindMaster, KindMasterSlave, KindSlave, KindBroadcast, KindInvalid:
			// legal
		default:
			t.Fatalf("classify(%#02x) returned unknown kind %v", c, class.Kind)
		}
	})
}
