// Package emailbody pulls a best-effort plain text body out of a raw
// RFC 5322 message so it can be classified.
package emailbody

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// NoSubject is reported when the message carries no Subject header.
const NoSubject = "[No Subject]"

// maxPartSize bounds how much of a single part is read into memory.
const maxPartSize = 10 << 20

// ErrNoTextBody means the message parsed but has no text part.
var ErrNoTextBody = errors.New("message has no text body")

// ParseError wraps any failure to read or decode a message.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse email: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Message is the part of an email the classifier cares about.
type Message struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

// ExtractFile opens path and extracts its body.
func ExtractFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer f.Close()

	return Extract(f)
}

// Extract reads a message from r. The first inline text/plain part wins;
// otherwise the first other text/* part is used, with HTML reduced to text.
func Extract(r io.Reader) (*Message, error) {
	// message.Read keeps the entity on an unknown transfer encoding, where
	// mail.CreateReader would drop it. The body is then left undecoded.
	e, err := message.Read(r)
	if e == nil || (err != nil && !isRecoverable(err)) {
		return nil, &ParseError{Err: err}
	}
	mr := mail.NewReader(e)

	msg := &Message{Subject: NoSubject}
	if subject, err := mr.Header.Subject(); err == nil && strings.TrimSpace(subject) != "" {
		msg.Subject = subject
	}

	var fallback *Message
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !isRecoverable(err) {
			return nil, &ParseError{Err: err}
		}
		if part == nil {
			continue
		}

		mediaType, inline := partType(part.Header)
		if !strings.HasPrefix(mediaType, "text/") {
			continue
		}

		body, err := io.ReadAll(io.LimitReader(part.Body, maxPartSize))
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("reading %s part: %w", mediaType, err)}
		}

		if mediaType == "text/plain" && inline {
			msg.Body = strings.TrimSpace(string(body))
			msg.ContentType = mediaType
			return msg, nil
		}

		if fallback == nil {
			text := string(body)
			if mediaType == "text/html" {
				text = htmlToText(text)
			}
			fallback = &Message{Body: strings.TrimSpace(text), ContentType: mediaType}
		}
	}

	if fallback == nil {
		return nil, &ParseError{Err: ErrNoTextBody}
	}
	msg.Body = fallback.Body
	msg.ContentType = fallback.ContentType
	return msg, nil
}

// partType returns the lowercased media type of a part and whether it is
// meant to be displayed inline.
func partType(h mail.PartHeader) (string, bool) {
	switch h := h.(type) {
	case *mail.InlineHeader:
		return mediaType(h.Get("Content-Type")), true
	case *mail.AttachmentHeader:
		return mediaType(h.Get("Content-Type")), false
	default:
		return "", false
	}
}

func mediaType(contentType string) string {
	if contentType == "" {
		// RFC 2045 default.
		return "text/plain"
	}
	t, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return t
}

// Unknown charsets and transfer encodings still leave a readable entity,
// read as is.
func isRecoverable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}
