// Command ebusdump decodes a captured eBUS octet stream and prints one
// line per completed telegram. Closest in spirit to the original
// Rust crate's main.rs smoke test, generalized to take real input
// instead of a hand-typed byte sequence.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lildadou/rebus-core/layer2"
)

func usage() {
	fmt.Fprintf(os.Stderr, "%s - Decode an eBUS octet stream and print completed telegrams.\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "If no file is given, reads from stdin. With -x, input is hex text\n")
	fmt.Fprintf(os.Stderr, "(whitespace-separated, e.g. \"AA 10 03 ...\"); otherwise it is raw binary.\n\n")
	pflag.PrintDefaults()
}

func main() {
	var hexInput = pflag.BoolP("hex", "x", false, "Input is whitespace-separated hex text, not raw binary")
	var help = pflag.BoolP("help", "h", false, "Display help text")

	pflag.Usage = usage
	pflag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	var in io.Reader = os.Stdin

	if args := pflag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ebusdump: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		in = f
	}

	var bytes []byte
	var err error

	if *hexInput {
		bytes, err = readHex(in)
	} else {
		bytes, err = io.ReadAll(in)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ebusdump: %v\n", err)
		os.Exit(1)
	}

	reader := layer2.NewBusReader()

	for _, b := range bytes {
		reader.ReadByte(b)

		if reader.IsFrameComplete() {
			fmt.Println(reader.Packet().String())
		}
	}
}

func readHex(r io.Reader) ([]byte, error) {
	var out []byte

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		tok := strings.TrimSpace(scanner.Text())
		if tok == "" {
			continue
		}

		b, err := hex.DecodeString(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid hex token %q: %w", tok, err)
		}

		out = append(out, b...)
	}

	return out, scanner.Err()
}
