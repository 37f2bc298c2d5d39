package wren

// defaultCapabilities is the capability list advertised in the EHLO
// reply when capabilities are enabled.
var defaultCapabilities = []string{"PIPELINING", "SIZE 10485760"}

// Handler dispatches parsed command lines against a session and produces
// responses. A Handler is stateless apart from its configuration; one
// instance is shared by all connections of a server.
type Handler struct {
	hostname           string
	enableCapabilities bool
	capabilities       []string
}

// NewHandler creates a handler that identifies itself as hostname in
// greetings. When enableCapabilities is false, EHLO is answered with a
// plain single-line greeting like HELO.
func NewHandler(hostname string, enableCapabilities bool) *Handler {
	return &Handler{
		hostname:           hostname,
		enableCapabilities: enableCapabilities,
		capabilities:       defaultCapabilities,
	}
}

// ProcessCommand handles one command line (terminator already stripped)
// against the session. A returned *Error describes a recoverable
// protocol failure; the session is left unchanged by rejected commands
// except for data-phase aborts, which are handled by HandleDataLine.
func (h *Handler) ProcessCommand(line string, sess *Session) (Response, error) {
	if len(line) > MaxCommandLineLength {
		return Response{}, &Error{Kind: KindLineTooLong, Max: MaxCommandLineLength}
	}

	cmd := parseCommand(line)

	switch cmd.Verb {
	case VerbHelo:
		return h.handleHelo(cmd, sess, false)
	case VerbEhlo:
		return h.handleHelo(cmd, sess, true)
	case VerbMail:
		return h.handleMail(cmd, sess)
	case VerbRcpt:
		return h.handleRcpt(cmd, sess)
	case VerbData:
		return h.handleData(cmd, sess)
	case VerbRset:
		return h.handleRset(sess)
	case VerbNoop:
		return ResponseOK(), nil
	case VerbQuit:
		return ResponseQuit(), nil
	default:
		return Response{}, &Error{Kind: KindInvalidCommand}
	}
}

func (h *Handler) handleHelo(cmd Command, sess *Session, extended bool) (Response, error) {
	if len(cmd.Args) < 1 {
		return Response{}, errInvalidSyntax(cmd.Verb.String() + " requires domain argument")
	}

	domain := cmd.Args[0]
	if err := sess.SetClientDomain(domain); err != nil {
		return Response{}, err
	}

	if extended && h.enableCapabilities {
		return ResponseEhlo(h.hostname, domain, h.capabilities), nil
	}
	return ResponseHelo(h.hostname, domain), nil
}

func (h *Handler) handleMail(cmd Command, sess *Session) (Response, error) {
	if !sess.CanExecute(VerbMail) {
		return Response{}, errInvalidState("MAIL command requires HELO first")
	}
	if len(cmd.Args) < 1 {
		return Response{}, errInvalidSyntax("MAIL requires FROM argument")
	}

	addr, err := parsePath(cmd.Args, "FROM", "MAIL command must be 'MAIL FROM:<address>'")
	if err != nil {
		return Response{}, err
	}
	if err := sess.SetSender(addr); err != nil {
		return Response{}, err
	}
	return ResponseOK(), nil
}

func (h *Handler) handleRcpt(cmd Command, sess *Session) (Response, error) {
	if !sess.CanExecute(VerbRcpt) {
		return Response{}, errInvalidState("RCPT command requires MAIL first")
	}
	if len(cmd.Args) < 1 {
		return Response{}, errInvalidSyntax("RCPT requires TO argument")
	}

	addr, err := parsePath(cmd.Args, "TO", "RCPT command must be 'RCPT TO:<address>'")
	if err != nil {
		return Response{}, err
	}
	if err := sess.AddRecipient(addr); err != nil {
		return Response{}, err
	}
	return ResponseOK(), nil
}

func (h *Handler) handleData(cmd Command, sess *Session) (Response, error) {
	if !sess.CanExecute(VerbData) {
		return Response{}, errInvalidState("DATA command requires RCPT first")
	}
	if len(cmd.Args) > 0 {
		return Response{}, errInvalidSyntax("DATA command takes no arguments")
	}

	if err := sess.BeginData(); err != nil {
		return Response{}, err
	}
	return ResponseDataStart(), nil
}

func (h *Handler) handleRset(sess *Session) (Response, error) {
	if !sess.CanExecute(VerbRset) {
		return Response{}, errInvalidState("RSET command requires HELO first")
	}

	sess.Reset()
	return ResponseOK(), nil
}

// HandleDataLine handles one line during the data phase. A lone "."
// finalizes the transaction and returns the completed email together
// with its 250 reply. Any other line is buffered silently (nil response).
// On a limit violation the transaction is aborted: the session resets to
// the post-HELO state and the error is returned.
func (h *Handler) HandleDataLine(line string, sess *Session) (*Email, *Response, error) {
	if line == "." {
		email, err := sess.FinishData()
		if err != nil {
			sess.Reset()
			return nil, nil, err
		}
		resp := ResponseOK()
		return &email, &resp, nil
	}

	if err := sess.AddDataLine(line); err != nil {
		sess.Reset()
		return nil, nil, err
	}
	return nil, nil, nil
}
