package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// Second, independent threshold table used only when the summary response
// had to be approximated from free text. It intentionally differs from the
// heuristic table in the heuristics package.
const (
	FallbackHighRiskLines   = 2 // high when strictly more high-risk lines than this
	FallbackMediumRiskLines = 3 // medium when strictly more medium-risk lines than this
)

const maxApproxSummaryRunes = 500

// greedy: first '{' through last '}'
var reJSONBlock = regexp.MustCompile(`(?s)\{.*\}`)

// FallbackRiskLevel applies the approximation table.
func FallbackRiskLevel(high, medium int) constants.RiskLevel {
	switch {
	case high > FallbackHighRiskLines:
		return constants.RiskHigh
	case medium > FallbackMediumRiskLines:
		return constants.RiskMedium
	default:
		return constants.RiskLow
	}
}

// ParseSummary turns a summary response into a Summary. It never fails: a
// missing or broken JSON block falls through to ApproximateSummary.
func ParseSummary(text string, lang constants.Language) Summary {
	if block := reJSONBlock.FindString(text); block != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(block), &m); err == nil {
			s := summaryFromMap(m, lang)
			s.Mode = constants.ParseModeParsed
			return s
		}
	}
	return ApproximateSummary(text, lang)
}

// summaryFromMap coerces loosely-typed model output into a Summary and
// fills anything missing with defaults.
func summaryFromMap(m map[string]any, lang constants.Language) Summary {
	s := Summary{
		RiskSummary:  asString(m["riskSummary"]),
		ContractType: asString(m["contractType"]),
		Parties:      asStringList(m["parties"]),
		HighRisks:    asStringList(m["highRisks"]),
		MediumRisks:  asStringList(m["mediumRisks"]),
		LowRisks:     asStringList(m["lowRisks"]),
		PaymentTerms: asString(m["paymentTerms"]),
		GoverningLaw: asString(m["governingLaw"]),
	}
	if d, ok := m["dates"].(map[string]any); ok {
		s.Dates = DateRange{Start: asString(d["start"]), End: asString(d["end"])}
	}
	if lvl, ok := constants.ParseRiskLevel(asString(m["riskLevel"])); ok {
		s.RiskLevel = lvl
	} else {
		s.RiskLevel = FallbackRiskLevel(len(s.HighRisks), len(s.MediumRisks))
	}
	if s.RiskSummary == "" {
		s.RiskSummary = missingSummary(lang)
	}
	return s
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		for _, k := range []string{"name", "text", "description", "risk", "value"} {
			if s := asString(t[k]); s != "" {
				return s
			}
		}
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(bs)
}

func asStringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	case string, map[string]any:
		if s := asString(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type bucket int

const (
	bucketNone bucket = iota
	bucketHigh
	bucketMedium
	bucketLow
)

var (
	reBullet  = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)
	reHeading = regexp.MustCompile(`^#+\s*`)

	riskLabels = []struct {
		b  bucket
		re *regexp.Regexp
	}{
		{bucketHigh, regexp.MustCompile(`(?i)^(?:high(?:[\s-]*risks?)?|مخاطر\s+عالية|خطر\s+عال[يٍ]?)\s*[:：\-–]\s*(.*)$`)},
		{bucketMedium, regexp.MustCompile(`(?i)^(?:medium(?:[\s-]*risks?)?|moderate(?:[\s-]*risks?)?|مخاطر\s+متوسطة|خطر\s+متوسط)\s*[:：\-–]\s*(.*)$`)},
		{bucketLow, regexp.MustCompile(`(?i)^(?:low(?:[\s-]*risks?)?|مخاطر\s+منخفضة|خطر\s+منخفض)\s*[:：\-–]\s*(.*)$`)},
	}

	reSummaryLabel  = regexp.MustCompile(`(?i)^(?:risk\s+summary|summary|overview|الملخص|ملخص)\s*[:：]\s*(.+)$`)
	reTypeLabel     = regexp.MustCompile(`(?i)^(?:contract\s+type|نوع\s+العقد)\s*[:：]\s*(.+)$`)
	reLawLabel      = regexp.MustCompile(`(?i)^(?:governing\s+law|القانون\s+الواجب\s+التطبيق)\s*[:：]\s*(.+)$`)
	rePaymentLabel  = regexp.MustCompile(`(?i)^(?:payment\s+terms?|شروط\s+الدفع)\s*[:：]\s*(.+)$`)
	reRiskLevelLine = regexp.MustCompile(`(?i)^(?:overall\s+)?risk\s+level\s*[:：]`)
)

// ApproximateSummary scans free text line by line for "high/medium/low risk:"
// style labels. A label with nothing after it opens a section whose bullet
// lines belong to that severity until the next blank line or label.
func ApproximateSummary(text string, lang constants.Language) Summary {
	s := Summary{
		Parties:     []string{},
		HighRisks:   []string{},
		MediumRisks: []string{},
		LowRisks:    []string{},
		Mode:        constants.ParseModeApproximated,
	}

	var (
		section   = bucketNone
		firstLine string
	)
	add := func(b bucket, item string) {
		item = strings.TrimSpace(item)
		if item == "" {
			return
		}
		switch b {
		case bucketHigh:
			s.HighRisks = append(s.HighRisks, item)
		case bucketMedium:
			s.MediumRisks = append(s.MediumRisks, item)
		case bucketLow:
			s.LowRisks = append(s.LowRisks, item)
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			section = bucketNone
			continue
		}
		isBullet := reBullet.MatchString(trimmed)
		line := strings.ReplaceAll(reBullet.ReplaceAllString(trimmed, ""), "**", "")
		line = strings.TrimSpace(reHeading.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		if labelled := matchRiskLabel(line); labelled != nil {
			if labelled.item == "" {
				section = labelled.b
			} else {
				section = bucketNone
				add(labelled.b, labelled.item)
			}
			continue
		}
		if m := reSummaryLabel.FindStringSubmatch(line); m != nil {
			s.RiskSummary = strings.TrimSpace(m[1])
			section = bucketNone
			continue
		}
		if m := reTypeLabel.FindStringSubmatch(line); m != nil {
			s.ContractType = strings.TrimSpace(m[1])
			continue
		}
		if m := reLawLabel.FindStringSubmatch(line); m != nil {
			s.GoverningLaw = strings.TrimSpace(m[1])
			continue
		}
		if m := rePaymentLabel.FindStringSubmatch(line); m != nil {
			s.PaymentTerms = strings.TrimSpace(m[1])
			continue
		}
		if reRiskLevelLine.MatchString(line) {
			continue
		}
		if section != bucketNone && isBullet {
			add(section, line)
			continue
		}
		section = bucketNone
		if firstLine == "" && !strings.ContainsAny(line, "{}") {
			firstLine = line
		}
	}

	s.RiskLevel = FallbackRiskLevel(len(s.HighRisks), len(s.MediumRisks))
	if s.RiskSummary == "" {
		s.RiskSummary = truncateRunes(firstLine, maxApproxSummaryRunes)
	}
	if s.RiskSummary == "" {
		s.RiskSummary = missingSummary(lang)
	}
	return s
}

type riskLabel struct {
	b    bucket
	item string
}

func matchRiskLabel(line string) *riskLabel {
	for _, rl := range riskLabels {
		if m := rl.re.FindStringSubmatch(line); m != nil {
			return &riskLabel{b: rl.b, item: strings.TrimSpace(m[1])}
		}
	}
	return nil
}

func missingSummary(lang constants.Language) string {
	if lang == constants.LanguageArabic {
		return "لم يقدّم النموذج ملخصاً للمخاطر."
	}
	return "The model did not provide a risk summary."
}
