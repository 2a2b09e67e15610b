// Command ebusd is the long-running daemon: it opens a serial device,
// decodes the eBUS octet stream continuously, and republishes
// completed telegrams to TCP clients, optionally announcing itself
// over DNS-SD. Wiring style grounded on samoyed's appserver.go (flag
// parsing, listener setup, signal-driven shutdown).
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/lildadou/rebus-core/internal/busreceiver"
	"github.com/lildadou/rebus-core/internal/busserver"
	"github.com/lildadou/rebus-core/internal/config"
	"github.com/lildadou/rebus-core/internal/rlog"
	"github.com/lildadou/rebus-core/layer2"
)

func usage() {
	fmt.Fprintf(os.Stderr, "%s - eBUS Layer-2 decoding bridge daemon.\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to YAML config file")
	var device = pflag.StringP("device", "d", "", "Serial device, e.g. /dev/ttyUSB0 (overrides config)")
	var baud = pflag.Uint32P("baud", "b", 0, "Serial baud rate (overrides config)")
	var listen = pflag.StringP("listen", "l", "", "TCP listen address, e.g. :8888 (overrides config)")
	var dnssdEnabled = pflag.Bool("dns-sd", false, "Announce the bridge over DNS-SD")
	var help = pflag.BoolP("help", "h", false, "Display help text")

	pflag.Usage = usage
	pflag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ebusd: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if *device != "" {
		cfg.Serial.Device = *device
	}

	if *baud != 0 {
		cfg.Serial.Baud = *baud
	}

	if *listen != "" {
		cfg.Listen.Address = *listen
	}

	if *dnssdEnabled {
		cfg.DNSSD.Enabled = true
	}

	if cfg.Serial.Device == "" {
		fmt.Fprintln(os.Stderr, "ebusd: no serial device given (use -d or a config file)")
		os.Exit(1)
	}

	logger := rlog.New(nil, rlog.ParseLevel(cfg.LogLevel))

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	port, err := busreceiver.Open(cfg.Serial.Device, cfg.Serial.Baud)
	if err != nil {
		return fmt.Errorf("opening serial port: %w", err)
	}
	defer port.Close()

	listener, err := net.Listen("tcp", cfg.Listen.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen.Address, err)
	}
	defer listener.Close()

	logger.Info("listening", "address", listener.Addr())

	srv := busserver.New(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.DNSSD.Enabled {
		tcpAddr, ok := listener.Addr().(*net.TCPAddr)
		if !ok {
			return fmt.Errorf("listener address is not TCP: %v", listener.Addr())
		}

		if err := srv.Announce(ctx, cfg.DNSSD.Name, tcpAddr.Port); err != nil {
			return fmt.Errorf("announcing over dns-sd: %w", err)
		}
	}

	go func() {
		if err := srv.Serve(listener); err != nil {
			logger.Error("tcp server stopped", "err", err)
		}
	}()

	reader := layer2.NewBusReader()

	done := make(chan error, 1)

	go func() {
		done <- busreceiver.Pump(port, reader, srv.Broadcast)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")

		return nil
	case err := <-done:
		return fmt.Errorf("serial pump stopped: %w", err)
	}
}
