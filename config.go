package wren

import (
	"log/slog"
	"time"
)

// ServerConfig contains configuration options for the SMTP server.
type ServerConfig struct {
	// Hostname is the name the server announces in HELO/EHLO replies.
	// Required.
	Hostname string

	// Addr is the TCP listen address.
	Addr string

	// Greeting is the free text of the 220 banner sent on connect.
	Greeting string

	// EnableCapabilities controls whether EHLO is answered with a
	// multi-line capability block. When false, EHLO gets the same
	// single-line reply as HELO.
	EnableCapabilities bool

	// MaxConnections caps concurrently served connections (0 = unlimited).
	MaxConnections int

	// ReadTimeout is the maximum time to wait for a command line.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to spend writing a reply.
	WriteTimeout time.Duration

	// DataTimeout is the maximum time to wait for a line during the
	// data phase.
	DataTimeout time.Duration

	// ResolveClientAddr enables a reverse DNS lookup of the client IP on
	// connect, recorded in the connection trace for logging.
	ResolveClientAddr bool

	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:               ":2525",
		Greeting:           "Welcome to Wren",
		EnableCapabilities: true,
		ReadTimeout:        5 * time.Minute,
		WriteTimeout:       5 * time.Minute,
		DataTimeout:        10 * time.Minute,
		Logger:             slog.Default(),
	}
}
