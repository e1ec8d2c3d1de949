package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

const sarServiceAgreement = `SERVICE AGREEMENT

This Service Agreement is dated March 1, 2024 and is entered into between Company ABC ("Provider") and Client XYZ ("Client").

Provider shall deliver consulting services to Client.
The total fee is SAR 100,000, payable within 30 days of invoice.
Either party may terminate this Agreement with 30 days written notice.
This Agreement shall be governed by the laws of the Kingdom of Saudi Arabia.`

func TestStructure_ServiceAgreement(t *testing.T) {
	res := NewStructurer(nil).Structure(sarServiceAgreement)

	assert.Equal(t, constants.ContractService, res.ContractType)

	require.Len(t, res.Parties, 2)
	assert.Equal(t, "Company ABC", res.Parties[0].Name)
	assert.Equal(t, constants.PartyRoleFirst, res.Parties[0].Role)
	assert.Equal(t, "Client XYZ", res.Parties[1].Name)
	assert.Equal(t, constants.PartyRoleSecond, res.Parties[1].Role)
	assert.Equal(t, "between", res.Parties[0].Source.Rule)

	assert.Equal(t, "March 1, 2024", res.EffectiveDate)
	assert.Equal(t, "Kingdom of Saudi Arabia", res.GoverningLaw)
	assert.Empty(t, res.TermDuration)

	assert.Equal(t, "100,000", res.Payment.Amount)
	assert.Equal(t, "SAR", res.Payment.Currency)
	assert.Equal(t, "within 30 days of invoice", res.Payment.Terms)
	assert.Empty(t, res.Payment.Schedule)

	assert.Equal(t, 0, res.HighCount)
	assert.Equal(t, 2, res.MediumCount)
	assert.Equal(t, constants.RiskMedium, res.RiskLevel)
}

func TestStructure_EmptyText(t *testing.T) {
	res := NewStructurer(nil).Structure("  \n ")
	assert.Equal(t, constants.ContractOther, res.ContractType)
	assert.Equal(t, constants.RiskLow, res.RiskLevel)
	assert.Empty(t, res.Parties)
	assert.Empty(t, res.RiskPhrases)
	assert.Empty(t, res.Payment.Amount)
}

func TestStructure_Deterministic(t *testing.T) {
	s := NewStructurer(nil)
	assert.Equal(t, s.Structure(sarServiceAgreement), s.Structure(sarServiceAgreement))
}

func TestExtractParties_RulePriority(t *testing.T) {
	text := "WHEREAS, Omega Partners wishes to engage a contractor.\n" +
		"This agreement is made between Alpha Group and Beta Group."

	parties := ExtractParties(text)
	require.Len(t, parties, 3)
	assert.Equal(t, "Alpha Group", parties[0].Name)
	assert.Equal(t, "Beta Group", parties[1].Name)
	assert.Equal(t, "Omega Partners", parties[2].Name)
	assert.Equal(t, "whereas", parties[2].Source.Rule)
	assert.Equal(t, constants.PartyRoleGeneric, parties[2].Role)
}

func TestExtractParties_CapAndDedupe(t *testing.T) {
	text := "First Party: Alpha Trading\n" +
		"Second Party: Beta Services\n" +
		"Buyer: ALPHA TRADING\n" +
		"Vendor: Gamma Supplies\n" +
		"Supplier: Delta Logistics\n" +
		"Contractor: Epsilon Works\n" +
		"Employee: Zeta Person\n"

	parties := ExtractParties(text)
	require.Len(t, parties, MaxParties)

	names := make([]string, 0, len(parties))
	for _, p := range parties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha Trading", "Beta Services", "Gamma Supplies", "Delta Logistics", "Epsilon Works"}, names)
	assert.Equal(t, constants.PartyRoleFirst, parties[0].Role)
	assert.Equal(t, constants.PartyRoleSecond, parties[1].Role)
}

func TestExtractParties_CompanySuffix(t *testing.T) {
	parties := ExtractParties("This agreement is made by Acme Holdings LLC for the benefit of others.")
	require.Len(t, parties, 1)
	assert.Equal(t, "Acme Holdings LLC", parties[0].Name)
	assert.Equal(t, "LLC", parties[0].CompanySuffix)
	assert.Equal(t, constants.PartyRoleGeneric, parties[0].Role)
}

func TestExtractParties_CompanySuffixStaysOnOneLine(t *testing.T) {
	parties := ExtractParties("CONSULTING AGREEMENT\nGlobex Inc. shall provide the services.")
	require.Len(t, parties, 1)
	assert.Equal(t, "Globex Inc.", parties[0].Name)
	assert.Equal(t, "Inc.", parties[0].CompanySuffix)
	assert.Equal(t, "company_suffix", parties[0].Source.Rule)
}

func TestExtractParties_ArabicLabels(t *testing.T) {
	parties := ExtractParties("الطرف الأول: شركة الأفق للتقنية\nالطرف الثاني: مؤسسة النور التجارية\n")
	require.Len(t, parties, 2)
	assert.Equal(t, "شركة الأفق للتقنية", parties[0].Name)
	assert.Equal(t, constants.PartyRoleFirst, parties[0].Role)
	assert.Equal(t, "مؤسسة النور التجارية", parties[1].Name)
	assert.Equal(t, constants.PartyRoleSecond, parties[1].Role)
}

func TestContractTypeOf(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.ContractType
	}{
		{"service beats nda", "This non-disclosure agreement supplements the service agreement.", constants.ContractService},
		{"employment beats sales", "Employment contract. The employee may act as buyer.", constants.ContractEmployment},
		{"nda", "MUTUAL NON-DISCLOSURE AGREEMENT", constants.ContractNDA},
		{"sales", "Bill of Sale for one used vehicle", constants.ContractSales},
		{"arabic", "عقد بيع سيارة", constants.ContractSales},
		{"fallback", "Minutes of the quarterly meeting", constants.ContractOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ContractTypeOf(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractTypeKeywordsFollowOrder(t *testing.T) {
	require.Len(t, contractTypeKeywords, len(constants.ContractTypeOrder)-1)
	for i, ks := range contractTypeKeywords {
		assert.Equal(t, constants.ContractTypeOrder[i], ks.contractType)
	}
}

func TestExtractEffectiveDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantRule int
	}{
		{"month name", "Effective Date: January 15, 2024", "January 15, 2024", 0},
		{"numeric", "Effective Date: 2024-01-15", "2024-01-15", 1},
		{"day of", "IN WITNESS WHEREOF, dated this 5th day of March, 2024", "5th day of March, 2024", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, ok := ExtractEffectiveDate(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, src.Index)
		})
	}

	_, _, ok := ExtractEffectiveDate("no dates in here")
	assert.False(t, ok)
}

func TestExtractTermDuration(t *testing.T) {
	got, src, ok := ExtractTermDuration("The term of this Agreement is 12 months from signing.")
	require.True(t, ok)
	assert.Equal(t, "12 months", got)
	assert.Equal(t, 0, src.Index)

	got, src, ok = ExtractTermDuration("This Agreement shall remain in full force and effect for 2 Years.")
	require.True(t, ok)
	assert.Equal(t, "2 years", got)
	assert.Equal(t, "term.remain_in_effect", src.Rule)

	got, src, ok = ExtractTermDuration("The rental period shall be 6 months from delivery.")
	require.True(t, ok)
	assert.Equal(t, "6 months", got)
	assert.Equal(t, "term.keyword", src.Rule)

	got, src, ok = ExtractTermDuration("Services will be provided for a period of 18 months.")
	require.True(t, ok)
	assert.Equal(t, "18 months", got)
	assert.Equal(t, 1, src.Index)
	assert.Equal(t, "term.period_of", src.Rule)

	_, _, ok = ExtractTermDuration("Either party may terminate with notice.")
	assert.False(t, ok)

	_, _, ok = ExtractTermDuration("Interest accrues periodically at 2 percent.")
	assert.False(t, ok)
}

func TestExtractEndDate(t *testing.T) {
	got, src, ok := ExtractEndDate("This Agreement expires on December 31, 2025.")
	require.True(t, ok)
	assert.Equal(t, "December 31, 2025", got)
	assert.Equal(t, "end.expires", src.Rule)

	got, src, ok = ExtractEndDate("Services continue until 30/06/2026.")
	require.True(t, ok)
	assert.Equal(t, "30/06/2026", got)
	assert.Equal(t, 1, src.Index)

	_, _, ok = ExtractEndDate("No end is specified.")
	assert.False(t, ok)
}

func TestExtractGoverningLaw(t *testing.T) {
	got, src, ok := ExtractGoverningLaw("This Agreement shall be governed by and construed in accordance with the laws of the State of New York.")
	require.True(t, ok)
	assert.Equal(t, "State of New York", got)
	assert.Equal(t, "law.governed_by", src.Rule)

	got, src, ok = ExtractGoverningLaw("Governing Law: England and Wales")
	require.True(t, ok)
	assert.Equal(t, "England and Wales", got)
	assert.Equal(t, "law.heading", src.Rule)

	_, _, ok = ExtractGoverningLaw("Nothing about jurisdiction.")
	assert.False(t, ok)
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		high, medium int
		want         constants.RiskLevel
	}{
		{0, 0, constants.RiskLow},
		{0, 1, constants.RiskLow},
		{0, 2, constants.RiskMedium},
		{0, 10, constants.RiskMedium},
		{1, 0, constants.RiskMedium},
		{1, 2, constants.RiskMedium},
		{2, 2, constants.RiskMedium},
		{1, 3, constants.RiskHigh},
		{2, 3, constants.RiskHigh},
		{3, 0, constants.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.high, tt.medium), "high=%d medium=%d", tt.high, tt.medium)
	}
}

func TestExtractRiskPhrases(t *testing.T) {
	t.Run("high before medium", func(t *testing.T) {
		phrases := ExtractRiskPhrases("This clause covers confidentiality. The Supplier accepts unlimited liability for all losses.")
		require.Len(t, phrases, 2)
		assert.Equal(t, constants.SeverityHigh, phrases[0].Severity)
		assert.Equal(t, "unlimited liability", phrases[0].Keyword)
		assert.True(t, strings.HasPrefix(phrases[0].Text, `High: "`))
		assert.Contains(t, phrases[0].Text, "unlimited liability")
		assert.Equal(t, constants.SeverityMedium, phrases[1].Severity)
		assert.True(t, strings.HasPrefix(phrases[1].Text, `Medium: "`))
	})

	t.Run("context window", func(t *testing.T) {
		text := strings.Repeat("x", 200) + " penalty " + strings.Repeat("y", 200)
		phrases := ExtractRiskPhrases(text)
		require.Len(t, phrases, 1)
		want := `High: "` + strings.Repeat("x", 49) + " penalty " + strings.Repeat("y", 49) + `"`
		assert.Equal(t, want, phrases[0].Text)
	})

	t.Run("capped", func(t *testing.T) {
		text := strings.Join(highRiskKeywords, ". ") + ". " + strings.Join(mediumRiskKeywords, ". ")
		phrases := ExtractRiskPhrases(text)
		require.Len(t, phrases, MaxRiskPhrases)
		for _, p := range phrases {
			assert.Equal(t, constants.SeverityHigh, p.Severity)
		}
	})

	t.Run("heading and clause for the same law count once", func(t *testing.T) {
		text := "12. Governing Law\nThis Agreement shall be governed by the laws of England."
		phrases := ExtractRiskPhrases(text)
		require.Len(t, phrases, 1)
		assert.Equal(t, "governing law", phrases[0].Keyword)

		high, medium := CountSeverities(phrases)
		assert.Equal(t, constants.RiskLow, ClassifyRisk(high, medium))
	})

	t.Run("clause without heading", func(t *testing.T) {
		phrases := ExtractRiskPhrases("This Agreement shall be governed by the laws of England.")
		require.Len(t, phrases, 1)
		assert.Equal(t, "governed by the laws", phrases[0].Keyword)
	})

	t.Run("arabic context", func(t *testing.T) {
		phrases := ExtractRiskPhrases("يلتزم الطرف الثاني بدفع غرامة تأخير عن كل يوم")
		require.Len(t, phrases, 1)
		assert.Contains(t, phrases[0].Text, "غرامة")
	})
}

func TestExtractPayment(t *testing.T) {
	t.Run("dollar amount with installments", func(t *testing.T) {
		pd := ExtractPayment("The Client shall pay $5,000 in 3 equal installments.")
		assert.Equal(t, "5,000", pd.Amount)
		assert.Equal(t, "USD", pd.Currency)
		assert.Equal(t, "amount.dollar", pd.Sources["amount"].Rule)
		assert.Equal(t, "in 3 equal installments", pd.Schedule)
		assert.Empty(t, pd.Terms)
	})

	t.Run("labeled amount with net terms", func(t *testing.T) {
		pd := ExtractPayment("Price: 2500 EUR.\nPayment terms: Net 30\n")
		assert.Equal(t, "2500", pd.Amount)
		assert.Equal(t, "EUR", pd.Currency)
		assert.Equal(t, 0, pd.Sources["amount"].Index)
		assert.Equal(t, "Net 30", pd.Terms)
	})

	t.Run("lowercase word after label is not a currency code", func(t *testing.T) {
		pd := ExtractPayment("The monthly fee for 12 months is $5,000.")
		assert.Equal(t, "5,000", pd.Amount)
		assert.Equal(t, "USD", pd.Currency)
		assert.Equal(t, "amount.dollar", pd.Sources["amount"].Rule)
	})

	t.Run("labeled amount with currency code", func(t *testing.T) {
		pd := ExtractPayment("Total amount: SAR 250,000 payable on signature.")
		assert.Equal(t, "250,000", pd.Amount)
		assert.Equal(t, "SAR", pd.Currency)
		assert.Equal(t, "amount.labeled", pd.Sources["amount"].Rule)
	})

	t.Run("terms clipped", func(t *testing.T) {
		pd := ExtractPayment("Payment terms: " + strings.Repeat("a", 300) + "\n")
		assert.Len(t, []rune(pd.Terms), MaxPaymentText)
	})

	t.Run("nothing found", func(t *testing.T) {
		pd := ExtractPayment("No money changes hands.")
		assert.Equal(t, PaymentDetails{}, pd)
	})
}
