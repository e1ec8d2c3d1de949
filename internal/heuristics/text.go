package heuristics

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxParties       = 5
	MaxRiskPhrases   = 10
	MinPartyNameLen  = 3
	MaxPartyNameLen  = 100
	RiskContextRunes = 50
	MaxPaymentText   = 100
	CurrencyWindow   = 50
)

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// window returns text[start:end] widened by n runes on each side.
func window(text string, start, end, n int) string {
	lo := start
	for i := 0; i < n && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < n && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func cleanName(s string) string {
	s = collapseSpace(s)
	s = strings.Trim(s, " ,;:\"'“”")
	return s
}
