package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// ContentSeparator joins list content in schema-driven prompts.
const ContentSeparator = "\n---\n"

// MaxContractRunes bounds the contract text sent in a summary prompt.
const MaxContractRunes = 60000

// StructuredSystemInstruction is the fixed system turn for schema-driven calls.
const StructuredSystemInstruction = "You are a meticulous legal analyst assisting with contract review. " +
	"Answer only from the supplied content. Do not invent parties, dates, amounts or clauses. " +
	"When asked for JSON, return ONLY JSON with no surrounding prose or code fences."

// BuildStructuredPrompt joins the task instruction and the serialized content.
func BuildStructuredPrompt(task string, content any) (string, error) {
	body, err := SerializeContent(content)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(task))
	if body != "" {
		b.WriteString("\n\nContent:\n")
		b.WriteString(body)
	}
	return b.String(), nil
}

// SerializeContent passes strings through, joins lists with ContentSeparator
// and renders anything else as indented JSON.
func SerializeContent(content any) (string, error) {
	switch v := content.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ContentSeparator), nil
	case []byte:
		return string(v), nil
	}

	rv := reflect.ValueOf(content)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := SerializeContent(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ContentSeparator), nil
	}

	bs, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize content: %w", err)
	}
	return string(bs), nil
}

// BuildSummaryPrompts returns the system and user turns for the legal-summary call.
func BuildSummaryPrompts(text string, lang constants.Language) (system, user string) {
	text = truncateRunes(text, MaxContractRunes)
	if lang == constants.LanguageArabic {
		return arabicSummarySystem, arabicSummaryTask + "\n\nنص العقد:\n" + text
	}
	return englishSummarySystem, englishSummaryTask + "\n\nContract text:\n" + text
}

const englishSummarySystem = "You are an experienced contract lawyer reviewing agreements for business clients. " +
	"Write for a non-lawyer. Be specific and cite the clause behind each risk."

const englishSummaryTask = `Analyze the contract below and respond with a single JSON object of this exact shape:
{
  "riskLevel": "low" | "medium" | "high",
  "riskSummary": "2-4 sentence overview of the main risks",
  "contractType": "service | nda | employment | sales | other",
  "parties": ["party name", "..."],
  "highRisks": ["..."],
  "mediumRisks": ["..."],
  "lowRisks": ["..."],
  "dates": {"start": "...", "end": "..."},
  "paymentTerms": "...",
  "governingLaw": "..."
}
Use empty strings or empty arrays when something is not stated. Respond in English.`

const arabicSummarySystem = "أنت محامٍ متخصص في مراجعة العقود التجارية. " +
	"اكتب بلغة واضحة لغير المختصين واذكر البند الذي يستند إليه كل خطر."

const arabicSummaryTask = `حلّل العقد التالي وأجب بكائن JSON واحد بهذا الشكل تماماً (المفاتيح بالإنجليزية والقيم بالعربية):
{
  "riskLevel": "low" | "medium" | "high",
  "riskSummary": "ملخص من جملتين إلى أربع جمل لأهم المخاطر",
  "contractType": "service | nda | employment | sales | other",
  "parties": ["اسم الطرف", "..."],
  "highRisks": ["..."],
  "mediumRisks": ["..."],
  "lowRisks": ["..."],
  "dates": {"start": "...", "end": "..."},
  "paymentTerms": "...",
  "governingLaw": "..."
}
استخدم نصاً فارغاً أو مصفوفة فارغة عند عدم ذكر المعلومة. أجب باللغة العربية.`

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
