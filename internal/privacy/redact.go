package privacy

import (
	"crypto/hmac"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"regexp"
	"sync"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?[0-9]{1,3}[-.\s]?)?(\()?[0-9]{3}(\))?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
)

// Redactor masks personal identifiers in email subjects before they are
// logged or kept in the history. Email addresses become stable pseudonyms
// so repeated senders can still be correlated within one process.
type Redactor struct {
	salt  []byte
	cache map[string]string
	mutex sync.Mutex
}

// NewRedactor creates a redactor with a fresh random salt
func NewRedactor() (*Redactor, error) {
	salt := make([]byte, 32)
	if _, err := cryptorand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return NewRedactorWithSalt(salt), nil
}

// NewRedactorWithSalt creates a redactor with a fixed salt
func NewRedactorWithSalt(salt []byte) *Redactor {
	return &Redactor{
		salt:  append([]byte(nil), salt...),
		cache: make(map[string]string),
	}
}

// Redact replaces email addresses, URLs and phone numbers in text
func (r *Redactor) Redact(text string) string {
	if text == "" {
		return ""
	}

	text = emailPattern.ReplaceAllStringFunc(text, r.Pseudonymize)
	text = urlPattern.ReplaceAllString(text, "[URL]")
	text = phonePattern.ReplaceAllString(text, "[PHONE]")
	return text
}

// Pseudonymize maps value to a deterministic EMAIL_XXXXXXXX token
func (r *Redactor) Pseudonymize(value string) string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if p, ok := r.cache[value]; ok {
		return p
	}

	h := fnv.New32a()
	h.Write([]byte(r.hashValue(value)))
	p := fmt.Sprintf("EMAIL_%08X", h.Sum32())
	r.cache[value] = p
	return p
}

// hashValue returns the first 16 hex characters of the salted HMAC
func (r *Redactor) hashValue(value string) string {
	h := hmac.New(sha256.New, r.salt)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
