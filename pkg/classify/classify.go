// Package classify decides whether a redacted ticket message may be handled
// automatically or must go to a human.
package classify

import (
	"strings"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
)

// Classification is the routing decision for one ticket.
type Classification int

const (
	Normal Classification = iota
	Sensitive
)

func (c Classification) String() string {
	if c == Sensitive {
		return "sensitive"
	}
	return "normal"
}

// Result carries the decision and the keywords that triggered it.
type Result struct {
	Classification Classification
	Matched        []string
}

func (r Result) IsSensitive() bool { return r.Classification == Sensitive }

// Classifier matches a fixed keyword set as case-insensitive substrings.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	keywords []string
}

// New builds a classifier over keywords; blank entries are dropped and an
// empty list falls back to config.DefaultSensitiveKeywords.
func New(keywords []string) *Classifier {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) == 0 {
		for _, k := range config.DefaultSensitiveKeywords {
			kw = append(kw, strings.ToLower(k))
		}
	}
	return &Classifier{keywords: kw}
}

// Keywords returns a copy of the active keyword list.
func (c *Classifier) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Classify is Sensitive when any keyword occurs anywhere in text.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)
	var matched []string
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			matched = append(matched, k)
		}
	}
	if len(matched) > 0 {
		return Result{Classification: Sensitive, Matched: matched}
	}
	return Result{Classification: Normal}
}
