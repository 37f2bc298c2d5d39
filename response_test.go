package wren

import (
	"strings"
	"testing"
)

func TestResponseString(t *testing.T) {
	resp := Response{Code: CodeOK, Message: "OK"}
	if got := resp.String(); got != "250 OK" {
		t.Errorf("String() = %q, want %q", got, "250 OK")
	}
}

func TestResponseWireFormatSingleLine(t *testing.T) {
	resp := Response{Code: CodeServiceReady, Message: "Welcome to Wren"}
	if got := resp.WireFormat(); got != "220 Welcome to Wren\r\n" {
		t.Errorf("WireFormat() = %q", got)
	}
}

func TestResponseWireFormatMultiline(t *testing.T) {
	resp := Response{
		Code:         CodeOK,
		Message:      "test.local Hello client.local",
		Capabilities: []string{"PIPELINING", "SIZE 10485760"},
	}

	want := "250-test.local Hello client.local\r\n" +
		"250-PIPELINING\r\n" +
		"250 SIZE 10485760\r\n"
	if got := resp.WireFormat(); got != want {
		t.Errorf("WireFormat() = %q, want %q", got, want)
	}
}

func TestResponseWireFormatSingleCapability(t *testing.T) {
	resp := Response{
		Code:         CodeOK,
		Message:      "test.local Hello client.local",
		Capabilities: []string{"PIPELINING"},
	}

	want := "250-test.local Hello client.local\r\n250 PIPELINING\r\n"
	if got := resp.WireFormat(); got != want {
		t.Errorf("WireFormat() = %q, want %q", got, want)
	}
}

func TestResponseClassification(t *testing.T) {
	tests := []struct {
		code      Code
		isSuccess bool
		isError   bool
	}{
		{CodeServiceReady, true, false},
		{CodeServiceClosing, true, false},
		{CodeOK, true, false},
		{CodeStartMailInput, false, false},
		{CodeServiceUnavailable, false, true},
		{CodeCommandUnrecognized, false, true},
		{CodeSyntaxError, false, true},
		{CodeBadSequence, false, true},
		{CodeExceededStorage, false, true},
	}

	for _, tt := range tests {
		resp := Response{Code: tt.code}
		if got := resp.IsSuccess(); got != tt.isSuccess {
			t.Errorf("IsSuccess(%d) = %v, want %v", tt.code, got, tt.isSuccess)
		}
		if got := resp.IsError(); got != tt.isError {
			t.Errorf("IsError(%d) = %v, want %v", tt.code, got, tt.isError)
		}
	}
}

func TestParseReplyLine(t *testing.T) {
	resp, err := ParseReplyLine("250 OK\r\n")
	if err != nil {
		t.Fatalf("ParseReplyLine failed: %v", err)
	}
	if resp.Code != CodeOK || resp.Message != "OK" {
		t.Errorf("Unexpected response: %v", resp)
	}

	// Round trip through the wire format.
	orig := ResponseDataStart()
	parsed, err := ParseReplyLine(orig.WireFormat())
	if err != nil {
		t.Fatalf("Round trip failed: %v", err)
	}
	if parsed.Code != orig.Code || parsed.Message != orig.Message {
		t.Errorf("Round trip mismatch: %v != %v", parsed, orig)
	}
}

func TestParseReplyLineMalformed(t *testing.T) {
	for _, line := range []string{"", "250", "250-OK", "abc OK", "25 OK"} {
		if _, err := ParseReplyLine(line); err == nil {
			t.Errorf("Expected error for %q", line)
		}
	}
}

func TestResponseConstructors(t *testing.T) {
	if got := ResponseOK().String(); got != "250 OK" {
		t.Errorf("ResponseOK() = %q", got)
	}
	if got := ResponseGreeting("Welcome to Wren").String(); got != "220 Welcome to Wren" {
		t.Errorf("ResponseGreeting() = %q", got)
	}
	if got := ResponseHelo("s.local", "c.local").String(); got != "250 s.local Hello c.local" {
		t.Errorf("ResponseHelo() = %q", got)
	}
	if got := ResponseDataStart().String(); got != "354 End data with <CR><LF>.<CR><LF>" {
		t.Errorf("ResponseDataStart() = %q", got)
	}
	if got := ResponseQuit().String(); got != "221 Bye" {
		t.Errorf("ResponseQuit() = %q", got)
	}

	ehlo := ResponseEhlo("s.local", "c.local", []string{"PIPELINING"})
	if !strings.HasPrefix(ehlo.WireFormat(), "250-s.local Hello c.local\r\n") {
		t.Errorf("ResponseEhlo() = %q", ehlo.WireFormat())
	}
}
