package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-]{7,}\d`)
	e164Re  = regexp.MustCompile(`\+\d{8,15}`)
)

// SetEnabled toggles PII redaction.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled returns true when redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Text redacts emails and phone numbers when enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// Phone masks all but the last four digits of a phone number when enabled,
// so "+919876543210" becomes "+91******3210".
func Phone(in string) string {
	if !enabled.Load() {
		return in
	}
	in = strings.TrimSpace(in)
	keep := 4
	prefix := ""
	if strings.HasPrefix(in, "+91") {
		prefix, in = "+91", in[3:]
	} else if strings.HasPrefix(in, "+") {
		prefix, in = "+", in[1:]
	}
	if len(in) <= keep {
		return prefix + strings.Repeat("*", len(in))
	}
	return prefix + strings.Repeat("*", len(in)-keep) + in[len(in)-keep:]
}

// CallID masks the phone number embedded in a call id.
func CallID(id string) string {
	if !enabled.Load() {
		return id
	}
	return e164Re.ReplaceAllStringFunc(id, Phone)
}
