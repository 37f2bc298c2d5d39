package wren

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConnectionTrace contains diagnostic information for a connection, used
// for logging and debugging.
type ConnectionTrace struct {
	// ID is a unique identifier for this connection (for correlation in logs).
	ID string
	// RemoteAddr is the remote client address.
	RemoteAddr net.Addr
	// LocalAddr is the local server address.
	LocalAddr net.Addr
	// ConnectedAt is when the connection was established.
	ConnectedAt time.Time
	// ReverseDNS is the reverse DNS lookup result for the client IP,
	// populated only when the server is configured to resolve it.
	ReverseDNS string
	// CommandCount is the total number of lines processed.
	CommandCount int64
	// TransactionCount is the number of mail transactions completed.
	TransactionCount int64
	// LastActivity is the timestamp of the last command.
	LastActivity time.Time
	// Errors holds protocol errors encountered during the session.
	Errors []error
}

// Connection represents one client connection and its session. The
// command loop runs in a single goroutine; the mutex exists because
// server shutdown touches the connection from outside that goroutine.
type Connection struct {
	conn net.Conn

	ctx    context.Context
	cancel context.CancelFunc

	reader *bufio.Reader
	writer *bufio.Writer

	mu sync.RWMutex

	// session is the protocol state machine for this connection.
	session *Session

	// Trace contains connection diagnostic information.
	Trace ConnectionTrace

	closed bool
}

// NewConnection wraps an accepted net.Conn. The provided context is the
// server's lifetime context; closing it signals the command loop to stop.
func NewConnection(ctx context.Context, conn net.Conn) *Connection {
	connCtx, cancel := context.WithCancel(ctx)
	now := time.Now()

	return &Connection{
		conn:    conn,
		ctx:     connCtx,
		cancel:  cancel,
		reader:  bufio.NewReader(conn),
		writer:  bufio.NewWriter(conn),
		session: NewSession(),
		Trace: ConnectionTrace{
			ID:           ulid.Make().String(),
			RemoteAddr:   conn.RemoteAddr(),
			LocalAddr:    conn.LocalAddr(),
			ConnectedAt:  now,
			LastActivity: now,
		},
	}
}

// Context returns the connection's context.
func (c *Connection) Context() context.Context {
	return c.ctx
}

// Session returns the protocol session for this connection.
func (c *Connection) Session() *Session {
	return c.session
}

// RemoteAddr returns the remote client address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// LocalAddr returns the local server address.
func (c *Connection) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// write sends raw bytes to the client under the connection mutex, so the
// command loop and the server's shutdown broadcast never interleave on
// the shared buffered writer.
func (c *Connection) write(s string, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return net.ErrClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := c.writer.WriteString(s); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close closes the connection and releases resources. It is safe to call
// more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()

	_ = c.writer.Flush()
	return c.conn.Close()
}

// UpdateActivity updates the last activity timestamp and increments the
// command count.
func (c *Connection) UpdateActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.LastActivity = time.Now()
	c.Trace.CommandCount++
}

// RecordError records a protocol error for this connection.
func (c *Connection) RecordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.Errors = append(c.Trace.Errors, err)
}

// ErrorCount returns the number of errors recorded for this connection.
func (c *Connection) ErrorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Trace.Errors)
}

// RecordTransaction increments the completed transaction count.
func (c *Connection) RecordTransaction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.TransactionCount++
}

// SetReverseDNS records the resolved client hostname.
func (c *Connection) SetReverseDNS(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.ReverseDNS = hostname
}
