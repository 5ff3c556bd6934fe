// Package categorizer assigns a human-readable category to expense
// commitments in two tiers: an ordered keyword table with singular/plural
// matching, then a remote language-model classifier for whatever the table
// does not cover.
package categorizer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"vmalves/transparencia-sync/internal/textutil"
)

// AIClient is the fallback classifier consulted when no keyword rule matches.
type AIClient interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Categorizer evaluates the ordered rule table and falls through to the
// AIClient. A nil AIClient disables the fallback; unmatched text then comes
// back as the empty (unclassified) category.
type Categorizer struct {
	rules []Rule
	ai    AIClient
	log   logrus.FieldLogger
}

// New creates a Categorizer. Pass DefaultRules() unless a rules file is
// configured.
func New(rules []Rule, ai AIClient, log logrus.FieldLogger) *Categorizer {
	if log == nil {
		log = logrus.New()
	}
	return &Categorizer{
		rules: rules,
		ai:    ai,
		log:   log,
	}
}

// MatchRules returns the category of the first rule whose keyword matches
// text, in singular or plural form, ignoring case and accents.
func (c *Categorizer) MatchRules(text string) (string, bool) {
	for _, rule := range c.rules {
		if textutil.MatchKeyword(text, rule.Keyword) {
			return rule.Category, true
		}
	}
	return "", false
}

// Categorize resolves the category for an expense from its summarized object
// and detail text. Keyword rules are tried first; the remote classifier is
// only consulted when no rule matches, and its errors propagate to the caller.
func (c *Categorizer) Categorize(ctx context.Context, objetoResumido, detalhamento string) (string, error) {
	text := strings.TrimSpace(objetoResumido + " " + detalhamento)

	if category, ok := c.MatchRules(text); ok {
		c.log.WithFields(logrus.Fields{
			"category": category,
			"source":   "rules",
		}).Debug("Category matched by keyword rule")
		return category, nil
	}

	if c.ai == nil {
		c.log.WithField("text", text).Debug("No rule matched and no AI client configured")
		return "", nil
	}

	c.log.Info("No local rule matched, consulting remote classifier")
	category, err := c.ai.Classify(ctx, text)
	if err != nil {
		return "", err
	}

	c.log.WithFields(logrus.Fields{
		"category": category,
		"source":   "remote",
	}).Debug("Category assigned by remote classifier")

	return category, nil
}
