package wren

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/netutil"

	wrendns "github.com/wrenmail/wren/dns"
	wrenio "github.com/wrenmail/wren/io"
	"github.com/wrenmail/wren/utils"
)

// readLimit is the byte cap handed to the line reader: the longest legal
// line (a data text line) plus its CRLF.
const readLimit = MaxTextLineLength + 2

// Server is an SMTP server that handles concurrent connections and
// delivers completed messages to its sink channel.
type Server struct {
	config  ServerConfig
	handler *Handler
	sink    chan<- Email

	listener net.Listener

	// connections tracks active connections
	connMu      sync.Mutex
	connections map[*Connection]struct{}
	connCount   atomic.Int64

	// shutdown coordination
	ctx        context.Context
	cancel     context.CancelFunc
	shutdownWg sync.WaitGroup
	closed     atomic.Bool
}

// NewServer creates a new SMTP server with the given configuration.
// Completed messages are sent to sink without ever blocking; a nil sink
// discards them.
func NewServer(config ServerConfig, sink chan<- Email) (*Server, error) {
	if config.Hostname == "" {
		return nil, errors.New("smtp: hostname is required")
	}

	// Apply defaults
	if config.Addr == "" {
		config.Addr = ":2525"
	}
	if config.Greeting == "" {
		config.Greeting = "Welcome to Wren"
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 5 * time.Minute
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 5 * time.Minute
	}
	if config.DataTimeout == 0 {
		config.DataTimeout = 10 * time.Minute
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config:      config,
		handler:     NewHandler(config.Hostname, config.EnableCapabilities),
		sink:        sink,
		connections: make(map[*Connection]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// ListenAndServe starts the SMTP server on the configured address.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("smtp: failed to listen: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on the listener and handles them, one
// goroutine per connection. It returns ErrServerClosed after Shutdown
// or Close.
func (s *Server) Serve(listener net.Listener) error {
	if s.config.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, s.config.MaxConnections)
	}
	s.listener = listener

	s.config.Logger.Info("SMTP server started",
		slog.String("addr", listener.Addr().String()),
		slog.String("hostname", s.config.Hostname),
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			s.config.Logger.Error("accept error", slog.Any("error", err))
			continue
		}

		s.shutdownWg.Add(1)
		go s.handleConnection(conn)
	}
}

// ConnectionCount returns the number of connections currently served.
func (s *Server) ConnectionCount() int {
	return int(s.connCount.Load())
}

// Shutdown gracefully shuts down the server: it stops accepting, tells
// connected clients the service is going away, and waits for active
// connections to finish or the context to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	s.cancel()

	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.sendShutdownResponse()

	done := make(chan struct{})
	go func() {
		s.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// Force close remaining connections
		s.connMu.Lock()
		for conn := range s.connections {
			_ = conn.Close()
		}
		s.connMu.Unlock()
		return ctx.Err()
	}
}

// Close immediately closes the server and all connections.
func (s *Server) Close() error {
	s.closed.Store(true)
	s.cancel()

	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.sendShutdownResponse()

	s.connMu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.connMu.Unlock()

	return nil
}

// sendShutdownResponse sends a 421 to all connected clients and closes
// them. Per RFC 5321, servers should send 421 before closing connections.
func (s *Server) sendShutdownResponse() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	resp := (&Error{Kind: KindIO}).Response()
	for conn := range s.connections {
		// Short deadline so shutdown cannot block on a dead peer.
		_ = conn.write(resp.WireFormat(), 5*time.Second)
		// Close the connection to unblock any pending reads.
		_ = conn.Close()
	}
}

// handleConnection processes a single client connection.
func (s *Server) handleConnection(netConn net.Conn) {
	defer s.shutdownWg.Done()

	conn := NewConnection(s.ctx, netConn)

	s.connMu.Lock()
	s.connections[conn] = struct{}{}
	s.connMu.Unlock()
	s.connCount.Add(1)

	defer func() {
		s.connMu.Lock()
		delete(s.connections, conn)
		s.connMu.Unlock()
		s.connCount.Add(-1)
		_ = conn.Close()
	}()

	logger := s.config.Logger.With(
		slog.String("conn_id", conn.Trace.ID),
		slog.String("remote", conn.RemoteAddr().String()),
	)

	logger.Info("client connected")

	if s.config.ResolveClientAddr {
		// The lookup can be slow; never delay the greeting for it.
		go func() {
			if hostname, err := wrendns.ReverseLookup(conn.RemoteAddr()); err == nil {
				conn.SetReverseDNS(hostname)
				logger.Debug("resolved client", slog.String("hostname", hostname))
			}
		}()
	}

	s.writeResponse(conn, ResponseGreeting(s.config.Greeting))

	s.lineLoop(conn, logger)

	logger.Info("client disconnected",
		slog.Int64("commands", conn.Trace.CommandCount),
		slog.Int("errors", conn.ErrorCount()),
		slog.Int64("transactions", conn.Trace.TransactionCount),
	)
}

// lineLoop reads lines from the client and routes them to the dispatcher
// or, during the data phase, to the collector.
func (s *Server) lineLoop(conn *Connection, logger *slog.Logger) {
	sess := conn.Session()

	for {
		select {
		case <-conn.Context().Done():
			return
		default:
		}

		readTimeout := s.config.ReadTimeout
		if sess.InDataMode() {
			readTimeout = s.config.DataTimeout
		}
		if err := conn.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}

		line, err := wrenio.ReadLine(conn.reader, readLimit)
		if err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				s.writeResponse(conn, Response{
					Code:    CodeServiceUnavailable,
					Message: "Timeout waiting for command",
				})
				return
			}
			if errors.Is(err, wrenio.ErrLineTooLong) {
				perr := &Error{Kind: KindLineTooLong, Max: MaxCommandLineLength}
				if sess.InDataMode() {
					// Oversized data line aborts the transaction.
					perr.Max = MaxTextLineLength
					sess.Reset()
				}
				conn.RecordError(perr)
				s.writeResponse(conn, perr.Response())
				continue
			}
			logger.Error("read error", slog.Any("error", err))
			return
		}

		conn.UpdateActivity()

		// Decode permissively: a garbled line still fails command
		// validation rather than killing the stream.
		line = utils.SanitizeUTF8(line)

		if sess.InDataMode() {
			s.handleDataLine(conn, line, logger)
			continue
		}

		// Ignore blank lines between commands.
		if line == "" {
			continue
		}

		resp, err := s.handler.ProcessCommand(line, sess)
		if err != nil {
			conn.RecordError(err)
			s.writeResponse(conn, errorResponse(err))
			continue
		}

		logger.Debug("command handled", slog.String("response", resp.String()))
		s.writeResponse(conn, resp)

		if resp.Code == CodeServiceClosing {
			return
		}
	}
}

// handleDataLine routes one data-phase line through the collector and
// emits the completed email when the terminator arrives.
func (s *Server) handleDataLine(conn *Connection, line string, logger *slog.Logger) {
	email, resp, err := s.handler.HandleDataLine(line, conn.Session())
	if err != nil {
		conn.RecordError(err)
		s.writeResponse(conn, errorResponse(err))
		return
	}
	if email != nil {
		s.emit(*email)
		conn.RecordTransaction()
		logger.Info("message accepted",
			slog.String("email_id", email.ID),
			slog.String("from", email.From),
			slog.Int("recipients", len(email.To)),
			slog.Int("bytes", email.DataSize()),
		)
	}
	if resp != nil {
		s.writeResponse(conn, *resp)
	}
}

// emit hands a completed email to the sink without blocking. A full,
// closed or nil sink drops the message.
func (s *Server) emit(email Email) {
	if s.sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	select {
	case s.sink <- email:
	default:
	}
}

// errorResponse maps any dispatch error to its wire reply.
func errorResponse(err error) Response {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Response()
	}
	return (&Error{Kind: KindProtocolViolation}).Response()
}

// writeResponse sends a single response to the client, truncating
// oversized serializations to a fixed substitute under the same code.
func (s *Server) writeResponse(conn *Connection, resp Response) {
	wire := resp.WireFormat()
	if len(wire) > MaxReplyLineLength {
		wire = Response{Code: resp.Code, Message: "Response too long (truncated)"}.WireFormat()
	}

	if err := conn.write(wire, s.config.WriteTimeout); err != nil {
		conn.RecordError(err)
	}
}
