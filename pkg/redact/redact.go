// Package redact masks personal data in customer text before it is logged,
// sent to a language model, or written back to a ticket.
package redact

import "regexp"

const (
	EmailMarker = "[email]"
	PhoneMarker = "[phone]"
)

var (
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

	// Optional country code, optional (area) code, then a 5-15 character run
	// of digits and separators. The run may begin or end with whitespace, and
	// it also swallows ZIP codes, order numbers and long separator runs.
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?(?:\(?\d{2,4}\)?[\s.-]?)?[\d\s.-]{5,15}`)
)

// Report counts substitutions per rule.
type Report struct {
	Emails int
	Phones int
}

func (r Report) Total() int { return r.Emails + r.Phones }

// Redact replaces email addresses with [email], then phone-like runs with
// [phone]. Emails go first so the phone rule cannot eat digits out of a
// local part. Redact is total and idempotent.
func Redact(text string) string {
	out, _ := Apply(text)
	return out
}

// Apply is Redact plus a count of what was replaced.
func Apply(text string) (string, Report) {
	var report Report
	if text == "" {
		return text, report
	}

	report.Emails = len(emailPattern.FindAllStringIndex(text, -1))
	text = emailPattern.ReplaceAllLiteralString(text, EmailMarker)

	report.Phones = len(phonePattern.FindAllStringIndex(text, -1))
	text = phonePattern.ReplaceAllLiteralString(text, PhoneMarker)

	return text, report
}
