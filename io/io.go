// Package io provides line-oriented reading for the SMTP wire protocol.
package io

import (
	"bufio"
	"errors"
)

// ErrLineTooLong is returned when a line exceeds the caller's limit. The
// rest of the oversized line has been drained so the next read starts at
// a line boundary.
var ErrLineTooLong = errors.New("smtp: line too long")

// ReadLine reads a single line of at most max bytes including its
// terminator. CRLF is the canonical terminator; a bare LF is tolerated.
// The returned string has the terminator stripped.
func ReadLine(reader *bufio.Reader, max int) (string, error) {
	// FAST PATH: the whole line fits in the bufio buffer (zero-copy view).
	line, err := reader.ReadSlice('\n')
	if err == nil {
		return trimAndCheck(line, max)
	}

	if err != bufio.ErrBufferFull {
		return "", err
	}

	// SLOW PATH: the line is larger than the bufio buffer; accumulate
	// chunks. The first chunk must be copied before the next ReadSlice
	// overwrites it.
	buf := append([]byte(nil), line...)

	for {
		line, err = reader.ReadSlice('\n')

		if len(buf)+len(line) > max {
			// Drain the rest of the line so the next read starts fresh.
			drainLine(reader)
			return "", ErrLineTooLong
		}

		buf = append(buf, line...)

		if err == nil {
			break
		}
		if err != bufio.ErrBufferFull {
			return "", err
		}
	}

	return trimAndCheck(buf, max)
}

// trimAndCheck enforces the length limit and strips the terminator. The
// input always ends in '\n' because ReadSlice succeeded.
func trimAndCheck(b []byte, max int) (string, error) {
	if len(b) > max {
		return "", ErrLineTooLong
	}

	b = b[:len(b)-1]
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}
	return string(b), nil
}

// drainLine discards the rest of the current line to recover protocol
// synchronization.
func drainLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}
