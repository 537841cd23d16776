// Package tcp implements the line-protocol endpoint: a listener that
// accepts persistent client connections and serves one comma-separated
// request line with exactly one response line, until the peer closes the
// connection.
package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"

	"marketd/internal/logging"
)

// maxLineBytes bounds a single request line. Longer lines end the
// connection with a read error.
const maxLineBytes = 1024 * 1024

// Server owns the listener and spawns one goroutine per accepted
// connection. Handlers hold no session state; every request carries the ids
// it needs, so a connection can be dropped and redialed at any point.
type Server struct {
	address string
	handler *Handler
	logger  logging.Logger

	// boundAddr receives the resolved listen address once, so callers
	// binding to port 0 can learn the real port.
	boundAddr chan string
}

func NewServer(address string, handler *Handler, logger logging.Logger) *Server {
	return &Server{
		address:   address,
		handler:   handler,
		logger:    logger.With("module", "tcp_server"),
		boundAddr: make(chan string, 1),
	}
}

// Addr returns a channel that yields the resolved listen address once Run
// has bound the listener.
func (s *Server) Addr() <-chan string {
	return s.boundAddr
}

// Run listens on the configured address and accepts connections until ctx
// is cancelled. Cancellation closes the listener; in-flight connections
// finish their current request and terminate when the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.address, err)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping TCP server")
		listener.Close()
	}()

	s.logger.Info(ctx, "starting TCP server", "address", listener.Addr().String())
	s.boundAddr <- listener.Addr().String()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error(ctx, "accept failed", "error", err)
			continue
		}
		go s.serveConn(ctx, conn)
	}
}

// serveConn runs the per-connection loop: read a line, dispatch, write the
// response line. A read error or EOF ends this connection only.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	log := s.logger.With("remote", remote)
	log.Info(ctx, "client connected")

	scanner := bufio.NewScanner(conn)
	// Request lines carry free-text descriptions and messages, which can
	// exceed the scanner's default 64KB token cap.
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		response := s.handler.Handle(ctx, scanner.Text())
		if _, err := fmt.Fprintln(conn, response); err != nil {
			log.Warn(ctx, "write failed, dropping connection", "error", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warn(ctx, "read failed", "error", err)
	}
	log.Info(ctx, "client disconnected")
}
