package heuristics

import (
	"strings"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// firstMatch returns the first capture of the first rule that matches.
func firstMatch(rules []rule, text string) (string, Provenance, bool) {
	for idx, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := collapseSpace(m[1]); v != "" {
			return v, Provenance{Rule: r.name, Index: idx}, true
		}
	}
	return "", Provenance{}, false
}

// ContractTypeOf scans the keyword sets in ContractTypeOrder; the first
// category with any hit wins, "other" otherwise.
func ContractTypeOf(text string) (constants.ContractType, Provenance) {
	lower := strings.ToLower(text)
	for idx, set := range contractTypeKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.contractType, Provenance{Rule: string(set.contractType) + ":" + kw, Index: idx}
			}
		}
	}
	return constants.ContractOther, Provenance{Rule: string(constants.ContractOther), Index: len(contractTypeKeywords)}
}

func ExtractEffectiveDate(text string) (string, Provenance, bool) {
	return firstMatch(effectiveDateRules, text)
}

func ExtractEndDate(text string) (string, Provenance, bool) {
	return firstMatch(endDateRules, text)
}

// ExtractTermDuration returns "<n> <unit>", e.g. "12 months".
func ExtractTermDuration(text string) (string, Provenance, bool) {
	for idx, r := range termRules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return m[1] + " " + strings.ToLower(m[2]), Provenance{Rule: r.name, Index: idx}, true
		}
	}
	return "", Provenance{}, false
}

func ExtractGoverningLaw(text string) (string, Provenance, bool) {
	v, src, ok := firstMatch(governingLawRules, text)
	if !ok {
		return "", src, false
	}
	return strings.TrimRight(v, " :"), src, true
}

// ExtractPayment derives amount, currency, terms and schedule independently.
func ExtractPayment(text string) PaymentDetails {
	pd := PaymentDetails{Sources: map[string]Provenance{}}

	for idx, r := range amountRules {
		loc := r.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		pd.Amount = text[loc[2]:loc[3]]
		pd.Sources["amount"] = Provenance{Rule: r.name, Index: idx}
		if code, cidx, ok := sniffCurrency(text[loc[0]:]); ok {
			pd.Currency = code
			pd.Sources["currency"] = Provenance{Rule: "currency." + code, Index: cidx}
		}
		break
	}

	if v, src, ok := firstMatch(paymentTermRules, text); ok {
		pd.Terms = clip(v, MaxPaymentText)
		pd.Sources["terms"] = src
	}
	if v, src, ok := firstMatch(paymentScheduleRules, text); ok {
		pd.Schedule = clip(v, MaxPaymentText)
		pd.Sources["schedule"] = src
	}
	if len(pd.Sources) == 0 {
		pd.Sources = nil
	}
	return pd
}

// sniffCurrency looks at the CurrencyWindow runes starting at the amount match.
func sniffCurrency(tail string) (string, int, bool) {
	w := window(tail, 0, 0, CurrencyWindow)
	for idx, c := range currencyRules {
		if c.re.MatchString(w) {
			return c.code, idx, true
		}
	}
	return "", 0, false
}
