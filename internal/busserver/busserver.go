// Package busserver fans decoded telegrams out to TCP clients and
// optionally announces itself over DNS-SD. Grounded on samoyed's
// server.go (the client-accept loop) and dns_sd.go (the
// github.com/brutella/dnssd announcement, copied near-verbatim since
// the announcement logic itself has nothing AGW/KISS-specific about
// it — only the service name and type change).
package busserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"

	"github.com/lildadou/rebus-core/layer2"
)

const dnssdServiceType = "_ebus-bridge._tcp"

// Server accepts TCP connections and writes one line of text per
// completed telegram to every connected client.
type Server struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[net.Conn]struct{}
}

// New returns a Server that logs through logger (see internal/rlog).
func New(logger *log.Logger) *Server {
	return &Server{
		logger:  logger,
		clients: make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections on listener until it returns an error
// (typically because the caller closed it). Each accepted connection
// is registered as a broadcast recipient and dropped from the set the
// moment a write to it fails.
func (s *Server) Serve(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("busserver: accept: %w", err)
		}

		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()

		s.logger.Info("client connected", "remote", conn.RemoteAddr())
	}
}

// Broadcast writes pkt's text representation, newline-terminated, to
// every currently connected client. Clients that error on write are
// closed and dropped.
func (s *Server) Broadcast(pkt layer2.Packet) {
	line := []byte(pkt.String() + "\n")

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if _, err := conn.Write(line); err != nil {
			s.logger.Warn("dropping client after write error", "remote", conn.RemoteAddr(), "err", err)
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Announce advertises the server on the local network over mDNS/DNS-SD,
// the pure-Go way samoyed's dns_sd_announce does for its KISS-over-TCP
// service. port must match the TCP port of the listener passed to Serve.
func (s *Server) Announce(ctx context.Context, name string, port int) error {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: dnssdServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("busserver: creating dns-sd service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("busserver: creating dns-sd responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return fmt.Errorf("busserver: adding dns-sd service: %w", err)
	}

	s.logger.Info("dns-sd: announcing", "name", name, "type", dnssdServiceType, "port", port)

	go func() {
		if err := responder.Respond(ctx); err != nil {
			s.logger.Error("dns-sd: responder stopped", "err", err)
		}
	}()

	return nil
}
