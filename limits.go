package wren

// SMTP size limits per RFC 821 Section 4.5.3. These are normative for the
// wire protocol and are not configurable.
const (
	// MaxUserLength is the maximum length of the local part of an address.
	MaxUserLength = 64

	// MaxDomainLength is the maximum length of a domain name, both in HELO
	// arguments and in the domain part of an address.
	MaxDomainLength = 64

	// MaxPathLength is the maximum length of a reverse-path or forward-path.
	MaxPathLength = 256

	// MaxCommandLineLength is the maximum length of a command line
	// including CRLF.
	MaxCommandLineLength = 512

	// MaxReplyLineLength is the maximum length of a reply line including
	// CRLF. Longer replies are truncated before transmission.
	MaxReplyLineLength = 512

	// MaxTextLineLength is the maximum length of a message text line
	// including CRLF.
	MaxTextLineLength = 1000

	// MaxRecipients is the maximum number of recipients per transaction.
	MaxRecipients = 100

	// MaxDataSize is the maximum cumulative size of message data per
	// transaction. Kept small enough for in-memory storage.
	MaxDataSize = 10 * 1024 * 1024
)
