package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
)

func TestClassify_EveryDefaultKeywordAnyCase(t *testing.T) {
	c := New(nil)
	for _, kw := range config.DefaultSensitiveKeywords {
		for _, variant := range []string{kw, strings.ToUpper(kw), strings.Title(kw)} { //nolint:staticcheck // test-only casing
			res := c.Classify("hi, about " + variant + " please")
			assert.Equal(t, Sensitive, res.Classification, variant)
			assert.Contains(t, res.Matched, kw)
		}
	}
}

func TestClassify_SubstringMatch(t *testing.T) {
	c := New(nil)
	// "charged" contains "charge", "refunds" contains "refund"
	assert.True(t, c.Classify("I was charged twice").IsSensitive())
	assert.True(t, c.Classify("Refunds?").IsSensitive())
	assert.True(t, c.Classify("please CANCEL SUBSCRIPTION now").IsSensitive())
}

func TestClassify_Normal(t *testing.T) {
	c := New(nil)
	for _, text := range []string{
		"How do I reset my password?",
		"",
		"cancel my meeting",
		"delete my comment",
		"contact me at [email]",
	} {
		res := c.Classify(text)
		assert.Equal(t, Normal, res.Classification, text)
		assert.Empty(t, res.Matched, text)
	}
}

func TestClassify_MultipleMatches(t *testing.T) {
	res := New(nil).Classify("Legal says the billing refund is wrong")
	assert.Equal(t, Sensitive, res.Classification)
	assert.ElementsMatch(t, []string{"refund", "billing", "legal"}, res.Matched)
}

func TestNew_CustomKeywords(t *testing.T) {
	c := New([]string{"  Chargeback ", "", "GDPR"})
	assert.Equal(t, []string{"chargeback", "gdpr"}, c.Keywords())
	assert.True(t, c.Classify("gdpr request").IsSensitive())
	assert.False(t, c.Classify("refund please").IsSensitive())
}

func TestNew_EmptyFallsBackToDefaults(t *testing.T) {
	c := New([]string{" ", ""})
	assert.Len(t, c.Keywords(), len(config.DefaultSensitiveKeywords))
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "sensitive", Sensitive.String())
	assert.Equal(t, "normal", Normal.String())
}
