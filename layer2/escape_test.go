package layer2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_DecodeEscape_KnownContinuations(t *testing.T) {
	v, ok := DecodeEscape(0x00)
	assert.True(t, ok)
	assert.Equal(t, ESC, v)

	v, ok = DecodeEscape(0x01)
	assert.True(t, ok)
	assert.Equal(t, SYN, v)
}

func Test_DecodeEscape_AnythingElseIsInvalid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := byte(rapid.IntRange(2, 255).Draw(t, "c"))

		_, ok := DecodeEscape(c)
		assert.False(t, ok, "c=%#02x", c)
	})
}
