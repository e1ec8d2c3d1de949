package heuristics

import (
	"regexp"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// Every table below is ordered: the first rule that yields a valid value wins,
// so reordering entries changes results.

type rule struct {
	name string
	re   *regexp.Regexp
}

type partyRule struct {
	rule
	roles []constants.PartyRole // one per capture group
}

type keywordSet struct {
	contractType constants.ContractType
	keywords     []string
}

const (
	// nameExpr starts on an upper-case (or caseless script) letter or digit.
	nameExpr  = `[\p{Lu}\p{Lo}0-9][\p{L}\p{N}&.'\- ]{2,99}?`
	nameEnd   = `\s*(?:[,;(\n"“]|\.(?:\s|$)|$)`
	monthExpr = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?`
	dateExpr  = `(?:` + monthExpr + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}|\d{1,2}(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?` + monthExpr + `,?\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`
	numExpr   = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`
	unitExpr  = `(years?|months?|weeks?|days?)`

	// currencyCodeExpr is case-sensitive so ordinary three-letter words never pass as codes.
	currencyCodeExpr = `USD|SAR|EUR|GBP|AED`

	companySuffixExpr = `(L\.L\.C\.|LLC|Incorporated\b|Inc\.|Inc\b|Corporation\b|Corp\.|Corp\b|Limited\b|Ltd\.|Ltd\b|Co\.|GmbH\b|PLC\b|LLP\b|W\.L\.L\.|WLL\b)`
)

var partyRules = []partyRule{
	{
		rule: rule{"between", regexp.MustCompile(`(?i:\bbetween)\s+(?:the\s+)?(` + nameExpr + `)\s*(?:\([^)]*\))?\s*,?\s+(?i:and)\s+(?:the\s+)?(` + nameExpr + `)` + nameEnd)},
		roles: []constants.PartyRole{constants.PartyRoleFirst, constants.PartyRoleSecond},
	},
	{
		rule:  rule{"label.first", regexp.MustCompile(`(?i:first\s+party|party\s+a|buyer|client|employer|disclosing\s+party)\s*:\s*(` + nameExpr + `)` + nameEnd)},
		roles: []constants.PartyRole{constants.PartyRoleFirst},
	},
	{
		rule:  rule{"label.second", regexp.MustCompile(`(?i:second\s+party|party\s+b|seller|service\s+provider|provider|contractor|vendor|supplier|employee|receiving\s+party)\s*:\s*(` + nameExpr + `)` + nameEnd)},
		roles: []constants.PartyRole{constants.PartyRoleSecond},
	},
	{
		rule:  rule{"label.first.ar", regexp.MustCompile(`الطرف\s+الأول\s*[:：]\s*([^\n،,:]{3,100})`)},
		roles: []constants.PartyRole{constants.PartyRoleFirst},
	},
	{
		rule:  rule{"label.second.ar", regexp.MustCompile(`الطرف\s+الثاني\s*[:：]\s*([^\n،,:]{3,100})`)},
		roles: []constants.PartyRole{constants.PartyRoleSecond},
	},
	{
		rule:  rule{"whereas", regexp.MustCompile(`(?i:whereas),?\s+(` + nameExpr + `)\s+(?i:is|wishes|desires|agrees)\b`)},
		roles: []constants.PartyRole{constants.PartyRoleGeneric},
	},
	{
		rule:  rule{"company_suffix", regexp.MustCompile(`\b([\p{Lu}][\p{L}\p{N}&'\-]*(?:[ \t]+[\p{Lu}][\p{L}\p{N}&'\-]*){0,4})[ \t]+` + companySuffixExpr)},
		roles: []constants.PartyRole{constants.PartyRoleGeneric},
	},
}

// contractTypeKeywords follows constants.ContractTypeOrder; "other" has none.
var contractTypeKeywords = []keywordSet{
	{constants.ContractService, []string{
		"service agreement", "services agreement", "consulting agreement", "consultancy agreement",
		"statement of work", "master services", "provision of services", "عقد خدمات", "عقد تقديم خدمات",
	}},
	{constants.ContractNDA, []string{
		"non-disclosure", "nondisclosure", "non disclosure", "confidentiality agreement", "(nda)",
		"اتفاقية عدم إفصاح", "عدم الإفصاح",
	}},
	{constants.ContractEmployment, []string{
		"employment agreement", "employment contract", "offer of employment", "employee", "employer",
		"عقد عمل", "الموظف",
	}},
	{constants.ContractSales, []string{
		"sales agreement", "sale agreement", "purchase agreement", "sale of goods", "bill of sale",
		"purchase order", "buyer", "seller", "عقد بيع", "المشتري", "البائع",
	}},
}

var effectiveDateRules = []rule{
	{"effective.month_name", regexp.MustCompile(`(?i)(?:effective\s+(?:date|as\s+of|from)|dated|as\s+of|commencing\s+(?:on|from)|entered\s+into\s+on|made\s+on)\s*(?:is|of|on)?\s*:?\s*(` + monthExpr + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}|\d{1,2}(?:st|nd|rd|th)?\s+` + monthExpr + `,?\s+\d{4})`)},
	{"effective.numeric", regexp.MustCompile(`(?i)(?:effective\s+(?:date|as\s+of|from)|dated|as\s+of|commencing\s+(?:on|from)|entered\s+into\s+on|made\s+on)\s*(?:is|of|on)?\s*:?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`)},
	{"effective.day_of", regexp.MustCompile(`(?i)dated\s+(?:this\s+)?(\d{1,2}(?:st|nd|rd|th)?\s+day\s+of\s+` + monthExpr + `,?\s+\d{4})`)},
}

var endDateRules = []rule{
	{"end.expires", regexp.MustCompile(`(?i)(?:expir(?:es|ation\s+date|y\s+date)|terminat(?:es|ion\s+date)|end\s+date|ends)\s*(?:on|is)?\s*:?\s*(` + dateExpr + `)`)},
	{"end.until", regexp.MustCompile(`(?i)\buntil\s+(` + dateExpr + `)`)},
}

var termRules = []rule{
	// "period of" is left to term.period_of.
	{"term.keyword", regexp.MustCompile(`(?i)\b(?:(?:term|duration)\b|period(?:[ \t]+(?:[^o\s]|o[^f\s])|[:,]))[^.\n]{0,60}?\b(\d+)\s*(?:\(\w+\)\s*)?` + unitExpr + `\b`)},
	{"term.period_of", regexp.MustCompile(`(?i)\bfor\s+a\s+period\s+of\s+(\d+)\s*(?:\(\w+\)\s*)?` + unitExpr + `\b`)},
	{"term.remain_in_effect", regexp.MustCompile(`(?i)remain\s+in\s+(?:full\s+force\s+and\s+)?effect\s+for\s+(\d+)\s*(?:\(\w+\)\s*)?` + unitExpr + `\b`)},
}

var governingLawRules = []rule{
	{"law.governed_by", regexp.MustCompile(`(?i)governed\s+by\s+(?:and\s+construed\s+in\s+accordance\s+with\s+)?the\s+laws?\s+of\s+(?:the\s+)?([^.,;\n]{3,80})`)},
	{"law.heading", regexp.MustCompile(`(?i)governing\s+law\s*:\s*([^.;\n]{3,80})`)},
}

var amountRules = []rule{
	{"amount.labeled", regexp.MustCompile(`\b(?i:(?:total\s+)?(?:amount|fees?|price|consideration|contract\s+value|sum)\s*(?:of|is|:)?)\s*(?:` + currencyCodeExpr + `|\$|€|£)?\s*` + numExpr)},
	{"amount.dollar", regexp.MustCompile(`\$\s*` + numExpr)},
	{"amount.currency_suffix", regexp.MustCompile(`(?i)` + numExpr + `\s*(?:USD|SAR|EUR|GBP|AED|dollars?|riyals?|euros?|pounds|ريال|ر\.س)`)},
	{"amount.currency_prefix", regexp.MustCompile(`\b(?:` + currencyCodeExpr + `)\s*` + numExpr)},
}

// currencyRules are tried against the window that starts at an amount match.
var currencyRules = []struct {
	code string
	re   *regexp.Regexp
}{
	{"SAR", regexp.MustCompile(`(?i)\bSAR\b|riyals?|ريال|ر\.س`)},
	{"USD", regexp.MustCompile(`(?i)\bUSD\b|\$|dollars?`)},
	{"EUR", regexp.MustCompile(`(?i)\bEUR\b|€|euros?`)},
	{"GBP", regexp.MustCompile(`(?i)\bGBP\b|£|pounds?\s+sterling`)},
	{"AED", regexp.MustCompile(`(?i)\bAED\b|dirhams?|درهم`)},
}

var paymentTermRules = []rule{
	{"terms.labeled", regexp.MustCompile(`(?i)payment\s+terms?\s*:\s*([^\n]+)`)},
	{"terms.payable_within", regexp.MustCompile(`(?i)(?:payable|paid|due)\s+(within\s+\d+\s+days?[^.\n]*)`)},
	{"terms.net", regexp.MustCompile(`(?i)\b(net\s+\d+(?:\s+days)?)\b`)},
	{"terms.within", regexp.MustCompile(`(?i)\b(within\s+\d+\s+days?\s+(?:of|from|after)\s+[^.\n]+)`)},
}

var paymentScheduleRules = []rule{
	{"schedule.labeled", regexp.MustCompile(`(?i)payment\s+schedule\s*:\s*([^\n]+)`)},
	{"schedule.frequency", regexp.MustCompile(`(?i)\b((?:monthly|quarterly|annually|annual|weekly|bi-weekly|semi-annual(?:ly)?)\s+(?:payments?|install?ments?|basis|fees?|invoices?))`)},
	{"schedule.installments", regexp.MustCompile(`(?i)\b(in\s+\d+\s+(?:equal\s+)?install?ments?[^.\n]*)`)},
	{"schedule.milestone", regexp.MustCompile(`(?i)\b(upon\s+(?:completion|delivery|signing|execution)[^.\n]*)`)},
}

var highRiskKeywords = []string{
	"unlimited liability",
	"personal guarantee",
	"liquidated damages",
	"indemnify and hold harmless",
	"sole discretion",
	"irrevocable",
	"non-compete",
	"penalty",
	"automatic renewal",
	"waive all rights",
	"without notice",
	"مسؤولية غير محدودة",
	"ضمان شخصي",
	"غرامة",
}

var mediumRiskKeywords = []string{
	"limitation of liability",
	"confidentiality",
	"force majeure",
	"terminate this agreement",
	"termination for convenience",
	"governing law",
	"governed by the laws",
	"arbitration",
	"indemnification",
	"intellectual property",
	"late payment",
	"exclusivity",
	"non-solicitation",
	"السرية",
	"القوة القاهرة",
	"التحكيم",
}

// riskAliases maps keywords that name the same clause onto one key; only the
// first of them found is recorded.
var riskAliases = map[string]string{
	"governed by the laws": "governing law",
}
