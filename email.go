package wren

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tinylib/msgp/msgp"
)

// Email is an immutable message produced by a completed transaction.
// Ownership transfers to the sink on creation; the session keeps no
// reference to it afterward.
type Email struct {
	// ID is a ULID assigned at creation, unique per received message.
	ID string

	// From is the envelope sender.
	From string

	// To holds the envelope recipients in acceptance order.
	To []string

	// Data is the message content, headers and body, lines joined by \n.
	Data string

	// ReceivedAt is when the transaction completed.
	ReceivedAt time.Time
}

// NewEmail creates an email with a fresh ID and the current time.
func NewEmail(from string, to []string, data string) Email {
	return Email{
		ID:         ulid.Make().String(),
		From:       from,
		To:         to,
		Data:       data,
		ReceivedAt: time.Now().UTC(),
	}
}

// HasRecipient reports whether the email was addressed to recipient.
func (e *Email) HasRecipient(recipient string) bool {
	for _, addr := range e.To {
		if addr == recipient {
			return true
		}
	}
	return false
}

// IsFrom reports whether the email's envelope sender is sender.
func (e *Email) IsFrom(sender string) bool {
	return e.From == sender
}

// DataSize returns the size of the message content in bytes.
func (e *Email) DataSize() int {
	return len(e.Data)
}

// Subject returns the Subject header value, or "" if the headers carry
// none. Headers end at the first empty line.
func (e *Email) Subject() string {
	for _, line := range strings.Split(e.Data, "\n") {
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			return v
		}
		if v, ok := strings.CutPrefix(line, "subject: "); ok {
			return v
		}
	}
	return ""
}

// Body returns the content after the first empty line, or "" if the
// message has no header/body separator.
func (e *Email) Body() string {
	_, body, found := strings.Cut(e.Data, "\n\n")
	if !found {
		return ""
	}
	return body
}

// ContainsText reports whether text occurs anywhere in the message
// content.
func (e *Email) ContainsText(text string) bool {
	return strings.Contains(e.Data, text)
}

// ToMessagePack serializes the email as a MessagePack map, appending to
// buf. Pass nil to allocate a fresh buffer.
func (e *Email) ToMessagePack(buf []byte) []byte {
	buf = msgp.AppendMapHeader(buf, 5)
	buf = msgp.AppendString(buf, "id")
	buf = msgp.AppendString(buf, e.ID)
	buf = msgp.AppendString(buf, "from")
	buf = msgp.AppendString(buf, e.From)
	buf = msgp.AppendString(buf, "to")
	buf = msgp.AppendArrayHeader(buf, uint32(len(e.To)))
	for _, addr := range e.To {
		buf = msgp.AppendString(buf, addr)
	}
	buf = msgp.AppendString(buf, "data")
	buf = msgp.AppendString(buf, e.Data)
	buf = msgp.AppendString(buf, "received_at")
	buf = msgp.AppendTime(buf, e.ReceivedAt)
	return buf
}

// FromMessagePack deserializes an email previously produced by
// ToMessagePack. Unknown map keys are skipped. It returns the bytes
// remaining after the email.
func (e *Email) FromMessagePack(buf []byte) ([]byte, error) {
	fields, buf, err := msgp.ReadMapHeaderBytes(buf)
	if err != nil {
		return buf, err
	}

	for i := uint32(0); i < fields; i++ {
		var key []byte
		key, buf, err = msgp.ReadMapKeyZC(buf)
		if err != nil {
			return buf, err
		}

		switch string(key) {
		case "id":
			e.ID, buf, err = msgp.ReadStringBytes(buf)
		case "from":
			e.From, buf, err = msgp.ReadStringBytes(buf)
		case "to":
			var n uint32
			n, buf, err = msgp.ReadArrayHeaderBytes(buf)
			if err != nil {
				return buf, err
			}
			e.To = make([]string, n)
			for j := uint32(0); j < n; j++ {
				e.To[j], buf, err = msgp.ReadStringBytes(buf)
				if err != nil {
					return buf, err
				}
			}
		case "data":
			e.Data, buf, err = msgp.ReadStringBytes(buf)
		case "received_at":
			e.ReceivedAt, buf, err = msgp.ReadTimeBytes(buf)
		default:
			buf, err = msgp.Skip(buf)
		}
		if err != nil {
			return buf, err
		}
	}
	return buf, nil
}
