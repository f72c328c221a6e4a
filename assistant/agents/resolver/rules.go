package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

// RulesResolver is a deterministic, model-free Resolver. It understands
// the reply shapes the model prompt teaches, from bare confirmations and
// skip requests to "I <verb> <name> <when>" contact reports. Replies it
// cannot classify are schema violations, the same contract the model
// resolver honors. Select it with RESOLVER_MODE=rules for offline runs.
type RulesResolver struct{}

func NewRulesResolver() *RulesResolver {
	return &RulesResolver{}
}

var contactPattern = regexp.MustCompile(
	`(?i)\b(?:texted|called|messaged|emailed|pinged|visited|facetimed|saw|met(?: up with)?|talked (?:to|with)|spoke (?:to|with)|chatted with|caught up with|hung out with)\s+(.+)$`,
)

// Leads are matched against the whole normalized reply or its first words.
// Order matters where one lead prefixes another.
var (
	confirmLeads = []string{"yes", "yep", "yeah", "yup", "done", "all done", "okay", "ok", "sure", "i did", "did it", "just did"}
	nextLeads    = []string{"someone else", "somebody else", "anyone else", "who else", "another", "next"}
	skipLeads    = []string{"skip", "pass", "not today", "nah", "nope", "no", "maybe later", "later"}
)

// Words that trail a name without being part of it.
var nameStopWords = map[string]bool{
	"instead": true,
	"already": true,
	"though":  true,
	"earlier": true,
	"again":   true,
}

func (r *RulesResolver) Resolve(_ context.Context, req contractx.ResolveRequest) (contractx.Intent, error) {
	raw := strings.Trim(strings.TrimSpace(req.Text), ".!? ")
	if raw == "" {
		return contractx.Intent{}, fmt.Errorf("%w: reply text is empty", contractx.ErrValidation)
	}
	text := normalize(raw)

	// Confirmations first: "yes, I called her yesterday" confirms the
	// current suggestion even though it contains a contact verb.
	if rest, ok := matchLead(text, confirmLeads); ok {
		_, when := splitTrailingDate(rest, req.Now)
		return contractx.Intent{Action: contractx.ActionLogSuggested, Date: when}, nil
	}

	// "no, but I talked to Sam" is a contact report, not a skip, so the
	// contact pattern runs before the skip leads. It runs on the raw text
	// to keep the name's casing.
	if m := contactPattern.FindStringSubmatch(raw); m != nil {
		name, when := splitTrailingDate(m[1], req.Now)
		if name = cleanName(name); name != "" {
			return contractx.Intent{
				Action:     contractx.ActionLogOther,
				FriendName: name,
				Date:       when,
			}, nil
		}
	}

	if _, ok := matchLead(text, nextLeads); ok {
		return contractx.Intent{Action: contractx.ActionGetNext}, nil
	}
	if _, ok := matchLead(text, skipLeads); ok {
		return contractx.Intent{Action: contractx.ActionSkip}, nil
	}

	return contractx.Intent{}, fmt.Errorf("%w: cannot classify reply %q", contractx.ErrSchemaViolation, req.Text)
}

// normalize lowercases and strips punctuation so lead matching only deals
// with plain words.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func matchLead(text string, leads []string) (rest string, ok bool) {
	for _, lead := range leads {
		if text == lead {
			return "", true
		}
		if strings.HasPrefix(text, lead+" ") {
			return strings.TrimSpace(text[len(lead):]), true
		}
	}
	return "", false
}

func cleanName(s string) string {
	words := strings.Fields(strings.Trim(s, " ,"))
	for len(words) > 0 && nameStopWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Trim(strings.Join(words, " "), " ,")
}
