package wren

import "strings"

// Verb identifies an SMTP command verb.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbHelo
	VerbEhlo
	VerbMail
	VerbRcpt
	VerbData
	VerbRset
	VerbNoop
	VerbQuit
)

// String returns the canonical uppercase form of the verb.
func (v Verb) String() string {
	switch v {
	case VerbHelo:
		return "HELO"
	case VerbEhlo:
		return "EHLO"
	case VerbMail:
		return "MAIL"
	case VerbRcpt:
		return "RCPT"
	case VerbData:
		return "DATA"
	case VerbRset:
		return "RSET"
	case VerbNoop:
		return "NOOP"
	case VerbQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed command line: the recognized verb and its argument
// tokens in order.
type Command struct {
	Verb Verb
	Args []string
}

// parseCommand splits a command line into its verb and arguments. Verbs
// are matched case-insensitively. An empty line or an unrecognized verb
// yields VerbUnknown; sequencing and argument validation happen in the
// dispatcher, not here.
func parseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Verb: VerbUnknown}
	}

	return Command{
		Verb: canonicalizeVerb(fields[0]),
		Args: fields[1:],
	}
}

// canonicalizeVerb maps a raw token to its verb. All verbs in the
// supported subset are four letters, so anything else is unknown.
func canonicalizeVerb(token string) Verb {
	if len(token) != 4 {
		return VerbUnknown
	}
	switch {
	case strings.EqualFold(token, "HELO"):
		return VerbHelo
	case strings.EqualFold(token, "EHLO"):
		return VerbEhlo
	case strings.EqualFold(token, "MAIL"):
		return VerbMail
	case strings.EqualFold(token, "RCPT"):
		return VerbRcpt
	case strings.EqualFold(token, "DATA"):
		return VerbData
	case strings.EqualFold(token, "RSET"):
		return VerbRset
	case strings.EqualFold(token, "NOOP"):
		return VerbNoop
	case strings.EqualFold(token, "QUIT"):
		return VerbQuit
	default:
		return VerbUnknown
	}
}

// parsePath extracts the mailbox from the argument tokens of MAIL or RCPT.
// The tokens are rejoined so that whitespace after the keyword colon is
// tolerated ("MAIL FROM: <a@b>"). The address must be enclosed in angle
// brackets and non-empty.
func parsePath(args []string, keyword, usage string) (string, error) {
	joined := strings.Join(args, " ")
	prefix := keyword + ":"
	if len(joined) < len(prefix) || !strings.EqualFold(joined[:len(prefix)], prefix) {
		return "", errInvalidSyntax(usage)
	}

	addr := strings.TrimSpace(joined[len(prefix):])
	if len(addr) < 2 || addr[0] != '<' || addr[len(addr)-1] != '>' {
		return "", errInvalidSyntax(keyword + " address must be enclosed in angle brackets")
	}

	addr = addr[1 : len(addr)-1]
	if addr == "" {
		return "", errInvalidSyntax(keyword + " address cannot be empty")
	}

	if err := validateAddress(addr); err != nil {
		return "", err
	}
	return addr, nil
}

// validateAddress checks a non-empty mailbox: exactly one @, non-empty
// local part and domain, and both within their length limits.
func validateAddress(addr string) error {
	at := strings.IndexByte(addr, '@')
	if at < 0 {
		return errInvalidSyntax("Email address must contain @ symbol")
	}

	local, domain := addr[:at], addr[at+1:]
	if len(local) > MaxUserLength {
		return &Error{Kind: KindUserTooLong, Max: MaxUserLength}
	}
	if len(domain) > MaxDomainLength {
		return &Error{Kind: KindDomainTooLong, Max: MaxDomainLength}
	}
	if local == "" || domain == "" || strings.IndexByte(domain, '@') >= 0 {
		return errInvalidSyntax("Invalid email address format")
	}
	return nil
}
