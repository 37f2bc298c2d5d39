package wren

// SessionState represents the current state of an SMTP session per
// RFC 821 Section 4.1.1.
type SessionState int

const (
	// StateInitial is the state of a freshly accepted connection,
	// waiting for HELO.
	StateInitial SessionState = iota
	// StateGreeting indicates HELO has been accepted, ready for MAIL.
	StateGreeting
	// StateMail indicates MAIL FROM has been accepted, ready for RCPT.
	StateMail
	// StateRcpt indicates at least one RCPT TO has been accepted, ready
	// for DATA or further RCPT commands.
	StateRcpt
	// StateData indicates DATA has been accepted, collecting message text.
	StateData
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateGreeting:
		return "GREETING"
	case StateMail:
		return "MAIL"
	case StateRcpt:
		return "RCPT"
	case StateData:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// Session holds the state and transaction data for a single SMTP
// connection. A Session is owned exclusively by its connection's handler
// goroutine; no other goroutine reads or writes it, so it carries no
// locking.
type Session struct {
	// State is the current session state.
	State SessionState

	// ClientDomain is the domain from HELO/EHLO. It survives transaction
	// resets and is cleared only by FullReset.
	ClientDomain string

	// From is the envelope sender from MAIL FROM, empty until accepted.
	From string

	// To holds accepted recipients in the order they were given.
	To []string

	// dataLines holds message text collected during the data phase.
	dataLines []string

	// dataSize is the accounted size of dataLines, each line counted
	// with a 2-byte terminator.
	dataSize int

	// inDataMode guards collector entry, tracked independently of State.
	inDataMode bool
}

// NewSession creates a session in the initial state.
func NewSession() *Session {
	return &Session{State: StateInitial}
}

// Reset clears the current transaction and returns the session to the
// post-HELO state. The client domain is kept.
func (s *Session) Reset() {
	s.State = StateGreeting
	s.From = ""
	s.To = nil
	s.dataLines = nil
	s.dataSize = 0
	s.inDataMode = false
}

// FullReset clears the transaction and the client domain, returning the
// session to the initial state.
func (s *Session) FullReset() {
	s.Reset()
	s.State = StateInitial
	s.ClientDomain = ""
}

// SetClientDomain records the HELO domain and resets any transaction in
// progress.
func (s *Session) SetClientDomain(domain string) error {
	if len(domain) > MaxDomainLength {
		return &Error{Kind: KindDomainTooLong, Max: MaxDomainLength}
	}

	s.ClientDomain = domain
	s.Reset()
	return nil
}

// SetSender records the envelope sender and clears any recipients and
// data from a prior attempt.
func (s *Session) SetSender(sender string) error {
	if len(sender) > MaxPathLength {
		return &Error{Kind: KindPathTooLong, Max: MaxPathLength}
	}

	s.From = sender
	s.To = nil
	s.dataLines = nil
	s.dataSize = 0
	s.State = StateMail
	return nil
}

// AddRecipient appends a recipient to the envelope.
func (s *Session) AddRecipient(recipient string) error {
	if len(recipient) > MaxPathLength {
		return &Error{Kind: KindPathTooLong, Max: MaxPathLength}
	}
	if len(s.To) >= MaxRecipients {
		return &Error{Kind: KindTooManyRecipients, Max: MaxRecipients}
	}

	s.To = append(s.To, recipient)
	s.State = StateRcpt
	return nil
}

// BeginData enters the data phase. The session must have at least one
// accepted recipient.
func (s *Session) BeginData() error {
	if s.State != StateRcpt {
		return errInvalidState("DATA command requires RCPT first")
	}

	s.inDataMode = true
	s.dataLines = nil
	s.dataSize = 0
	s.State = StateData
	return nil
}

// AddDataLine appends one line of message text. Each line is accounted
// with a 2-byte terminator against both the per-line and the cumulative
// limit.
func (s *Session) AddDataLine(line string) error {
	lineSize := len(line) + 2

	if lineSize > MaxTextLineLength {
		return &Error{Kind: KindLineTooLong, Max: MaxTextLineLength}
	}
	if s.dataSize+lineSize > MaxDataSize {
		return &Error{Kind: KindTooMuchData, Max: MaxDataSize}
	}

	s.dataLines = append(s.dataLines, line)
	s.dataSize += lineSize
	return nil
}

// FinishData leaves the data phase and produces the completed Email.
// The transaction is cleared: ownership of the envelope and data moves
// to the Email, and the session returns to the post-HELO state with no
// sender, recipients or buffered lines. The guards are defensive: normal
// command sequencing cannot reach the data phase without a sender and
// recipients.
func (s *Session) FinishData() (Email, error) {
	if !s.inDataMode {
		return Email{}, errInvalidState("Not in data collection mode")
	}
	if s.From == "" {
		return Email{}, errInvalidState("No sender specified")
	}
	if len(s.To) == 0 {
		return Email{}, errInvalidState("No recipients specified")
	}

	email := NewEmail(s.From, s.To, joinLines(s.dataLines))

	s.Reset()
	return email, nil
}

// joinLines assembles the message body: lines joined by a single newline,
// no trailing separator. The content is opaque to the session.
func joinLines(lines []string) string {
	n := 0
	for _, line := range lines {
		n += len(line) + 1
	}
	if n == 0 {
		return ""
	}

	b := make([]byte, 0, n-1)
	for i, line := range lines {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, line...)
	}
	return string(b)
}

// CanExecute reports whether the verb is valid in the current state.
// It is a pure predicate; the dispatcher consults it before mutating
// the session.
func (s *Session) CanExecute(verb Verb) bool {
	switch verb {
	case VerbHelo, VerbEhlo, VerbNoop, VerbQuit:
		return true
	case VerbMail:
		return s.State == StateGreeting
	case VerbRcpt:
		return s.State == StateMail || s.State == StateRcpt
	case VerbData:
		return s.State == StateRcpt
	case VerbRset:
		return s.State != StateInitial
	default:
		return false
	}
}

// InDataMode reports whether the session is collecting message text.
func (s *Session) InDataMode() bool {
	return s.inDataMode
}

// RecipientCount returns the number of accepted recipients.
func (s *Session) RecipientCount() int {
	return len(s.To)
}

// DataSize returns the accounted size of the collected message text.
func (s *Session) DataSize() int {
	return s.dataSize
}

// HasCompleteTransaction reports whether the envelope is complete and
// the session is ready for DATA.
func (s *Session) HasCompleteTransaction() bool {
	return s.From != "" && len(s.To) > 0 && s.State == StateRcpt
}
