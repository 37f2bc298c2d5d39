package wren

import (
	"fmt"
	"strconv"
	"strings"
)

// Code represents SMTP reply codes (RFC 821).
// 2yz: Success, 3yz: Continue, 4yz: Transient failure, 5yz: Permanent failure.
type Code int

const (
	// 2xx - Success
	CodeServiceReady   Code = 220
	CodeServiceClosing Code = 221
	CodeOK             Code = 250

	// 3xx - Intermediate
	CodeStartMailInput Code = 354

	// 4xx - Transient Failure
	CodeServiceUnavailable Code = 421

	// 5xx - Permanent Failure
	CodeCommandUnrecognized Code = 500
	CodeSyntaxError         Code = 501
	CodeBadSequence         Code = 503
	CodeExceededStorage     Code = 552
)

// Response represents an SMTP reply to be sent to the client. A response
// with Capabilities set renders as a multi-line block (used for EHLO);
// all other responses are single lines. Responses are created fresh per
// dispatch result and never mutated.
type Response struct {
	Code    Code
	Message string

	// Capabilities holds the optional capability lines of a multi-line
	// reply, in announcement order.
	Capabilities []string
}

// String formats the response as a single reply line without the
// terminator, for logs.
func (r Response) String() string {
	return fmt.Sprintf("%d %s", r.Code, r.Message)
}

// WireFormat serializes the response for transmission. Single-line
// replies render as "<code> <message>\r\n". With capabilities present,
// the message and every capability except the last render dash-continued
// ("<code>-<line>\r\n") and the last capability closes the block with a
// space separator.
func (r Response) WireFormat() string {
	if len(r.Capabilities) == 0 {
		return fmt.Sprintf("%d %s\r\n", r.Code, r.Message)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d-%s\r\n", r.Code, r.Message)
	for i, line := range r.Capabilities {
		if i < len(r.Capabilities)-1 {
			fmt.Fprintf(&b, "%d-%s\r\n", r.Code, line)
		} else {
			fmt.Fprintf(&b, "%d %s\r\n", r.Code, line)
		}
	}
	return b.String()
}

// IsSuccess returns true for 2xx codes.
func (r Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsError returns true for 4xx or 5xx codes.
func (r Response) IsError() bool {
	return r.Code >= 400
}

// ParseReplyLine parses a single wire reply line (with or without the
// CRLF terminator) back into its code and message.
func ParseReplyLine(line string) (Response, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 4 || line[3] != ' ' {
		return Response{}, fmt.Errorf("smtp: malformed reply line %q", line)
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil {
		return Response{}, fmt.Errorf("smtp: malformed reply code %q: %w", line[:3], err)
	}
	return Response{Code: Code(code), Message: line[4:]}, nil
}

// ResponseOK creates the standard 250 OK response.
func ResponseOK() Response {
	return Response{Code: CodeOK, Message: "OK"}
}

// ResponseGreeting creates the 220 greeting sent on connect.
func ResponseGreeting(greeting string) Response {
	return Response{Code: CodeServiceReady, Message: greeting}
}

// ResponseHelo creates the 250 reply to a successful HELO.
func ResponseHelo(hostname, clientDomain string) Response {
	return Response{
		Code:    CodeOK,
		Message: fmt.Sprintf("%s Hello %s", hostname, clientDomain),
	}
}

// ResponseEhlo creates the multi-line 250 reply to a successful EHLO,
// advertising the given capability lines.
func ResponseEhlo(hostname, clientDomain string, capabilities []string) Response {
	return Response{
		Code:         CodeOK,
		Message:      fmt.Sprintf("%s Hello %s", hostname, clientDomain),
		Capabilities: capabilities,
	}
}

// ResponseDataStart creates the 354 intermediate reply to DATA.
func ResponseDataStart() Response {
	return Response{Code: CodeStartMailInput, Message: "End data with <CR><LF>.<CR><LF>"}
}

// ResponseQuit creates the 221 reply to QUIT.
func ResponseQuit() Response {
	return Response{Code: CodeServiceClosing, Message: "Bye"}
}
