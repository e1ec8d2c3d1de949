package constants

import "strings"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel is case-insensitive and returns ("", false) for anything
// outside low/medium/high.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch lvl := RiskLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case RiskLow, RiskMedium, RiskHigh:
		return lvl, true
	}
	return "", false
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)
