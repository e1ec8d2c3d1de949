package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// Thresholds for the heuristic risk table. The AI fallback path uses its own
// table in the llm package.
const (
	HighRiskHighCount      = 3 // high on its own
	HighRiskHighWithMedium = 1 // high when paired with HighRiskMediumWithHigh
	HighRiskMediumWithHigh = 3
	MediumRiskHighCount    = 1
	MediumRiskMediumCount  = 2
)

type keywordMatcher struct {
	keyword  string
	severity constants.Severity
	re       *regexp.Regexp
}

var riskMatchers = buildRiskMatchers()

// buildRiskMatchers keeps high keywords ahead of medium ones.
func buildRiskMatchers() []keywordMatcher {
	out := make([]keywordMatcher, 0, len(highRiskKeywords)+len(mediumRiskKeywords))
	add := func(sev constants.Severity, kws []string) {
		for _, kw := range kws {
			out = append(out, keywordMatcher{
				keyword:  kw,
				severity: sev,
				re:       regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw)),
			})
		}
	}
	add(constants.SeverityHigh, highRiskKeywords)
	add(constants.SeverityMedium, mediumRiskKeywords)
	return out
}

// ExtractRiskPhrases records the first occurrence of each risk keyword with
// RiskContextRunes of context on either side, up to MaxRiskPhrases. Aliased
// keywords count once.
func ExtractRiskPhrases(text string) []RiskPhrase {
	phrases := make([]RiskPhrase, 0, MaxRiskPhrases)
	seen := make(map[string]struct{})
	for _, km := range riskMatchers {
		if len(phrases) == MaxRiskPhrases {
			break
		}
		key := km.keyword
		if alias, ok := riskAliases[key]; ok {
			key = alias
		}
		if _, dup := seen[key]; dup {
			continue
		}
		loc := km.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		seen[key] = struct{}{}
		ctx := collapseSpace(window(text, loc[0], loc[1], RiskContextRunes))
		phrases = append(phrases, RiskPhrase{
			Text:     fmt.Sprintf("%s: %q", severityLabel(km.severity), ctx),
			Severity: km.severity,
			Keyword:  km.keyword,
		})
	}
	return phrases
}

func severityLabel(s constants.Severity) string {
	v := string(s)
	return strings.ToUpper(v[:1]) + v[1:]
}

// CountSeverities tallies phrases by severity.
func CountSeverities(phrases []RiskPhrase) (high, medium int) {
	for _, p := range phrases {
		switch p.Severity {
		case constants.SeverityHigh:
			high++
		case constants.SeverityMedium:
			medium++
		}
	}
	return high, medium
}

// ClassifyRisk applies the heuristic table:
//
//	high   if high >= 3, or high >= 1 and medium >= 3
//	medium if high >= 1, or medium >= 2
//	low    otherwise
func ClassifyRisk(high, medium int) constants.RiskLevel {
	switch {
	case high >= HighRiskHighCount,
		high >= HighRiskHighWithMedium && medium >= HighRiskMediumWithHigh:
		return constants.RiskHigh
	case high >= MediumRiskHighCount, medium >= MediumRiskMediumCount:
		return constants.RiskMedium
	default:
		return constants.RiskLow
	}
}
