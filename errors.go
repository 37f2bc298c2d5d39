package wren

import "fmt"

// ErrorKind identifies a protocol failure. The set is closed: every
// recoverable failure the engine can produce is one of these kinds, and
// each kind maps to exactly one reply code and canonical message.
type ErrorKind int

const (
	// KindIO indicates a transport-level failure.
	KindIO ErrorKind = iota
	// KindInvalidCommand indicates an unrecognized command verb.
	KindInvalidCommand
	// KindInvalidState indicates a command sent out of sequence.
	KindInvalidState
	// KindInvalidSyntax indicates a malformed command argument.
	KindInvalidSyntax
	// KindLineTooLong indicates a line exceeding its length limit.
	KindLineTooLong
	// KindPathTooLong indicates an address path exceeding MaxPathLength.
	KindPathTooLong
	// KindTooManyRecipients indicates more than MaxRecipients recipients.
	KindTooManyRecipients
	// KindTooMuchData indicates message data exceeding MaxDataSize.
	KindTooMuchData
	// KindDomainTooLong indicates a domain exceeding MaxDomainLength.
	KindDomainTooLong
	// KindUserTooLong indicates a local part exceeding MaxUserLength.
	KindUserTooLong
	// KindBadEncoding indicates an undecodable byte sequence.
	KindBadEncoding
	// KindConnectionClosed indicates the peer closed the connection.
	KindConnectionClosed
	// KindProtocolViolation indicates any other protocol violation.
	KindProtocolViolation
)

// Error is a protocol error carrying only what its reply needs: the kind,
// an optional detail for sequence/syntax errors, and the violated limit
// for size errors. It is converted to a Response immediately and never
// retained across commands.
type Error struct {
	Kind   ErrorKind
	Detail string
	Max    int
}

// Error returns the canonical reply message for the kind. The texts are
// fixed for interoperability with existing clients; do not reword them.
func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		return "Service not available"
	case KindInvalidCommand:
		return "Syntax error, command unrecognized"
	case KindInvalidState:
		return fmt.Sprintf("Bad sequence of commands: %s", e.Detail)
	case KindInvalidSyntax:
		return fmt.Sprintf("Syntax error: %s", e.Detail)
	case KindLineTooLong:
		return fmt.Sprintf("Line too long (max %d characters)", e.Max)
	case KindPathTooLong:
		return fmt.Sprintf("Path too long (max %d characters)", e.Max)
	case KindTooManyRecipients:
		return fmt.Sprintf("Too many recipients (max %d)", e.Max)
	case KindTooMuchData:
		return fmt.Sprintf("Too much mail data (max %d bytes)", e.Max)
	case KindDomainTooLong:
		return fmt.Sprintf("Domain name too long (max %d characters)", e.Max)
	case KindUserTooLong:
		return fmt.Sprintf("User name too long (max %d characters)", e.Max)
	case KindBadEncoding:
		return "Invalid character encoding"
	case KindConnectionClosed:
		return "Connection closed"
	default:
		return "Protocol violation"
	}
}

// Code returns the reply code for the kind.
func (e *Error) Code() Code {
	switch e.Kind {
	case KindIO, KindConnectionClosed:
		return CodeServiceUnavailable
	case KindInvalidState:
		return CodeBadSequence
	case KindInvalidSyntax, KindPathTooLong, KindDomainTooLong, KindUserTooLong:
		return CodeSyntaxError
	case KindTooManyRecipients, KindTooMuchData:
		return CodeExceededStorage
	default:
		// KindInvalidCommand, KindLineTooLong, KindBadEncoding,
		// KindProtocolViolation
		return CodeCommandUnrecognized
	}
}

// Response converts the error to its wire reply.
func (e *Error) Response() Response {
	return Response{Code: e.Code(), Message: e.Error()}
}

func errInvalidState(detail string) *Error {
	return &Error{Kind: KindInvalidState, Detail: detail}
}

func errInvalidSyntax(detail string) *Error {
	return &Error{Kind: KindInvalidSyntax, Detail: detail}
}
