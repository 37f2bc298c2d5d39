package wren

import "testing"

// TestErrorMapping pins the full kind-to-reply table. The codes and
// message texts are load-bearing for clients that match on them.
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		code    Code
		message string
	}{
		{"io", &Error{Kind: KindIO}, 421, "Service not available"},
		{"invalid command", &Error{Kind: KindInvalidCommand}, 500, "Syntax error, command unrecognized"},
		{"invalid state", &Error{Kind: KindInvalidState, Detail: "MAIL command requires HELO first"}, 503, "Bad sequence of commands: MAIL command requires HELO first"},
		{"invalid syntax", &Error{Kind: KindInvalidSyntax, Detail: "HELO requires domain argument"}, 501, "Syntax error: HELO requires domain argument"},
		{"line too long", &Error{Kind: KindLineTooLong, Max: 512}, 500, "Line too long (max 512 characters)"},
		{"path too long", &Error{Kind: KindPathTooLong, Max: 256}, 501, "Path too long (max 256 characters)"},
		{"too many recipients", &Error{Kind: KindTooManyRecipients, Max: 100}, 552, "Too many recipients (max 100)"},
		{"too much data", &Error{Kind: KindTooMuchData, Max: 10485760}, 552, "Too much mail data (max 10485760 bytes)"},
		{"domain too long", &Error{Kind: KindDomainTooLong, Max: 64}, 501, "Domain name too long (max 64 characters)"},
		{"user too long", &Error{Kind: KindUserTooLong, Max: 64}, 501, "User name too long (max 64 characters)"},
		{"bad encoding", &Error{Kind: KindBadEncoding}, 500, "Invalid character encoding"},
		{"connection closed", &Error{Kind: KindConnectionClosed}, 421, "Connection closed"},
		{"protocol violation", &Error{Kind: KindProtocolViolation}, 500, "Protocol violation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Code(); got != tt.code {
				t.Errorf("Code() = %d, want %d", got, tt.code)
			}
			if got := tt.err.Error(); got != tt.message {
				t.Errorf("Error() = %q, want %q", got, tt.message)
			}

			resp := tt.err.Response()
			if resp.Code != tt.code || resp.Message != tt.message {
				t.Errorf("Response() = %v, want %d %s", resp, tt.code, tt.message)
			}
		})
	}
}
