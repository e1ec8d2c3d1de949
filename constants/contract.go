package constants

import "strings"

type ContractType string

const (
	ContractService    ContractType = "service"
	ContractNDA        ContractType = "nda"
	ContractEmployment ContractType = "employment"
	ContractSales      ContractType = "sales"
	ContractOther      ContractType = "other"
)

// ContractTypeOrder is the fixed evaluation order; earlier categories win ties.
var ContractTypeOrder = []ContractType{
	ContractService,
	ContractNDA,
	ContractEmployment,
	ContractSales,
	ContractOther,
}

// Canonicalize maps free-form labels (as returned by an AI model) onto a ContractType.
func Canonicalize(input string) (ContractType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return ContractOther, false
	}

	synonyms := map[string]ContractType{
		"service agreement":         ContractService,
		"services agreement":        ContractService,
		"consulting agreement":      ContractService,
		"non-disclosure agreement":  ContractNDA,
		"non disclosure agreement":  ContractNDA,
		"confidentiality agreement": ContractNDA,
		"employment contract":       ContractEmployment,
		"employment agreement":      ContractEmployment,
		"sales agreement":           ContractSales,
		"purchase agreement":        ContractSales,
		"sale agreement":            ContractSales,
		"عقد خدمات":                 ContractService,
		"اتفاقية عدم إفصاح":         ContractNDA,
		"عقد عمل":                   ContractEmployment,
		"عقد بيع":                   ContractSales,
	}
	if ct, ok := synonyms[normalized]; ok {
		return ct, true
	}
	for _, ct := range ContractTypeOrder {
		if normalized == string(ct) {
			return ct, true
		}
	}
	return ContractOther, false
}

type PartyRole string

const (
	PartyRoleFirst   PartyRole = "firstParty"
	PartyRoleSecond  PartyRole = "secondParty"
	PartyRoleGeneric PartyRole = "generic"
)

// Language selects the prompt variant and the language of AI narrative output.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// ParseLanguage defaults to English for anything it does not recognise.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ar", "arabic", "ara", "عربي", "العربية":
		return LanguageArabic
	default:
		return LanguageEnglish
	}
}
