package busreceiver

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lildadou/rebus-core/layer2"
)

func Test_Open_RejectsUnsupportedBaud(t *testing.T) {
	_, err := Open("/dev/null", 115200)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported baud rate")
}

func Test_Pump_FeedsBytesAndReportsCompletedFrames(t *testing.T) {
	raw, err := hexFixture()
	require.NoError(t, err)

	r, w := io.Pipe()

	go func() {
		_, _ = w.Write(raw)
		_ = w.Close()
	}()

	reader := layer2.NewBusReader()

	var frames []layer2.Packet

	err = Pump(r, reader, func(pkt layer2.Packet) {
		frames = append(frames, pkt)
	})

	require.True(t, errors.Is(err, io.EOF))
	require.Len(t, frames, 1)
	require.Equal(t, byte(0x31), frames[0].Source)
}

func hexFixture() ([]byte, error) {
	return []byte{
		0xAA, 0x31, 0xF6, 0x50, 0x22, 0x03, 0xEC, 0x11, 0x00, 0x87,
		0x00, 0x02, 0xBD, 0x00, 0x32, 0x00,
	}, nil
}
