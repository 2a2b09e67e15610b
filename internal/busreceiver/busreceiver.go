// Package busreceiver is the "serial driver supplying bytes" collaborator
// spec.md places out of scope for the decoder core. A complete,
// runnable daemon still needs a real one, so this wraps
// github.com/daedaluz/goserial (a separate pack repo, not the teacher)
// rather than stub it out.
package busreceiver

import (
	"fmt"
	"io"

	serial "github.com/daedaluz/goserial"

	"github.com/lildadou/rebus-core/layer2"
)

// baudFlags maps the handful of line speeds eBUS hardware actually
// uses to the termios CFlag constants goserial expects. eBUS itself
// always runs at 2400; the others are kept for bench testing against
// faster USB-serial adapters that only emulate the line electrically.
var baudFlags = map[uint32]serial.CFlag{
	2400:  serial.B2400,
	9600:  serial.B9600,
	19200: serial.B19200,
}

// Open configures and opens device for eBUS traffic: 8N1, raw mode, no
// flow control, at the given baud rate.
func Open(device string, baud uint32) (io.ReadWriteCloser, error) {
	flag, ok := baudFlags[baud]
	if !ok {
		return nil, fmt.Errorf("busreceiver: unsupported baud rate %d", baud)
	}

	port, err := serial.Open(device, nil)
	if err != nil {
		return nil, fmt.Errorf("busreceiver: opening %s: %w", device, err)
	}

	if err := configure(port, flag); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("busreceiver: configuring %s: %w", device, err)
	}

	return port, nil
}

func configure(port *serial.Port, baud serial.CFlag) error {
	if err := port.MakeRaw(); err != nil {
		return err
	}

	attrs, err := port.GetAttr2()
	if err != nil {
		return err
	}

	attrs.SetSpeed(baud)
	attrs.Cflag |= serial.CS8
	attrs.Cflag &^= serial.PARENB | serial.CSTOPB

	return port.SetAttr2(serial.TCSANOW, attrs)
}

// Pump reads octets from r until it returns an error (including io.EOF,
// which Pump returns to the caller unchanged) and feeds every one into
// into. onFrame is invoked synchronously, in-line with the read loop,
// whenever a byte completes a telegram — callers that need to hand the
// packet off asynchronously should copy it and queue it themselves;
// Pump holds no buffering of its own.
func Pump(r io.Reader, into *layer2.BusReader, onFrame func(layer2.Packet)) error {
	var buf [256]byte

	for {
		n, err := r.Read(buf[:])
		for i := 0; i < n; i++ {
			into.ReadByte(buf[i])

			if into.IsFrameComplete() && onFrame != nil {
				onFrame(into.Packet())
			}
		}

		if err != nil {
			return err
		}
	}
}
