// Package wren provides an embeddable SMTP test server for Go.
//
// Wren implements the minimal mail-submission subset of SMTP (RFC 5321)
// so that mail-sending code can be exercised against a real TCP endpoint
// instead of a mock. It keeps everything in memory: each connection owns
// an independent session state machine, and every completed transaction
// is handed to a channel as an Email value.
//
// # Quick Start
//
// Start a server and receive submitted messages on a channel:
//
//	sink := make(chan wren.Email, 16)
//	config := wren.DefaultServerConfig()
//	config.Hostname = "test.local"
//
//	server, err := wren.NewServer(config, sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	go func() {
//	    for email := range sink {
//	        log.Printf("received mail from %s", email.From)
//	    }
//	}()
//
//	log.Fatal(server.ListenAndServe())
//
// # Protocol Support
//
// Wren understands HELO, EHLO, MAIL, RCPT, DATA, RSET, NOOP and QUIT.
// EHLO answers with a small capability block (PIPELINING, SIZE) and can
// be turned off via ServerConfig. Authentication, STARTTLS and relaying
// are deliberately out of scope: the server accepts any envelope that is
// syntactically valid and within the RFC 821 size limits.
//
// # Delivery Guarantees
//
// The hand-off of completed messages to the sink channel is best-effort
// and never blocks the protocol engine. A full, closed or receiver-less
// sink silently drops the message; protocol correctness never depends on
// consumer liveness.
package wren

import "errors"

// ErrServerClosed is returned by Serve and ListenAndServe after Shutdown
// or Close.
var ErrServerClosed = errors.New("smtp: server closed")
