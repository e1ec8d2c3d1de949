package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var suffixTail = regexp.MustCompile(`\s` + companySuffixExpr + `$`)

// ExtractParties runs the party rules in order and keeps up to MaxParties
// distinct names (case-insensitive).
func ExtractParties(text string) []Party {
	parties := make([]Party, 0, MaxParties)
	seen := make(map[string]struct{})

	for idx, pr := range partyRules {
		for _, m := range pr.re.FindAllStringSubmatch(text, -1) {
			for g, role := range pr.roles {
				if len(parties) == MaxParties {
					return parties
				}
				name, suffix := cleanName(m[g+1]), ""
				if pr.name == "company_suffix" {
					suffix = m[len(m)-1]
					name = cleanName(name + " " + suffix)
				} else if sm := suffixTail.FindStringSubmatch(name); sm != nil {
					suffix = sm[1]
				}
				if n := utf8.RuneCountInString(name); n < MinPartyNameLen || n > MaxPartyNameLen {
					continue
				}
				key := strings.ToLower(name)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				parties = append(parties, Party{
					Name:          name,
					Role:          role,
					CompanySuffix: suffix,
					Source:        Provenance{Rule: pr.name, Index: idx},
				})
			}
		}
	}
	return parties
}
