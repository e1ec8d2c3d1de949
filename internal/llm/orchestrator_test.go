package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

type fakeCompleter struct {
	mu   sync.Mutex
	text string
	err  error
	reqs []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return CompletionResponse{}, f.err
	}
	return CompletionResponse{Text: f.text}, nil
}

func (f *fakeCompleter) last() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

func TestNewOrchestrator_RequiresCompleter(t *testing.T) {
	_, err := NewOrchestrator(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingCredentials)
}

func TestGenerateStructured(t *testing.T) {
	t.Run("valid json is returned unchanged", func(t *testing.T) {
		fc := &fakeCompleter{text: `{"clauses":[{"id":1,"title":"Fees"}],"ok":true}`}
		o, err := NewOrchestrator(fc)
		require.NoError(t, err)

		res, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "List clauses", Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeParsed, res.Mode)
		assert.Equal(t, map[string]any{
			"clauses": []any{map[string]any{"id": float64(1), "title": "Fees"}},
			"ok":      true,
		}, res.Object())
	})

	t.Run("malformed json falls back to raw", func(t *testing.T) {
		fc := &fakeCompleter{text: "Sure! Here are the clauses: {broken"}
		o, _ := NewOrchestrator(fc)

		res, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "List clauses", Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeRaw, res.Mode)
		assert.Equal(t, map[string]any{RawKey: "Sure! Here are the clauses: {broken"}, res.Object())
	})

	t.Run("code fence is tolerated", func(t *testing.T) {
		fc := &fakeCompleter{text: "```json\n{\"a\": 1}\n```"}
		o, _ := NewOrchestrator(fc)

		res, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "x"})
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeParsed, res.Mode)
		assert.Equal(t, map[string]any{"a": float64(1)}, res.Object())
	})

	t.Run("text format is passed through", func(t *testing.T) {
		fc := &fakeCompleter{text: "plain words"}
		o, _ := NewOrchestrator(fc)

		res, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "x", Format: FormatText})
		require.NoError(t, err)
		assert.Equal(t, "plain words", res.Raw)
		assert.Equal(t, FormatText, fc.last().Format)
	})

	t.Run("schema mismatch is reported, not fatal", func(t *testing.T) {
		fc := &fakeCompleter{text: `{"riskLevel":"extreme"}`}
		o, _ := NewOrchestrator(fc)

		res, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "x", Schema: BuildSummaryJSONSchema()})
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeParsed, res.Mode)
		assert.Error(t, res.SchemaErr)
	})

	t.Run("request carries prompt, schema and budget", func(t *testing.T) {
		fc := &fakeCompleter{text: `{}`}
		o, _ := NewOrchestrator(fc, WithModel("model-a"), WithThinkingBudget(1024))
		schema := map[string]any{"type": "object"}

		_, err := o.GenerateStructured(context.Background(), StructuredRequest{
			Task:    "Compare",
			Content: []string{"clause one", "clause two"},
			Schema:  schema,
		})
		require.NoError(t, err)

		got := fc.last()
		assert.Equal(t, "model-a", got.Model)
		assert.Equal(t, 1024, got.ThinkingBudget)
		assert.Equal(t, StructuredSystemInstruction, got.System)
		assert.Equal(t, schema, got.Schema)
		assert.True(t, strings.HasPrefix(got.Prompt, "Compare"))
		assert.Contains(t, got.Prompt, "clause one\n---\nclause two")
		assert.True(t, got.WantsJSON())
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		fc := &fakeCompleter{err: errors.New("dial tcp: connection refused")}
		o, _ := NewOrchestrator(fc)

		_, err := o.GenerateStructured(context.Background(), StructuredRequest{Task: "x"})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrAIUnavailable)
	})
}

func TestSummarizeContract(t *testing.T) {
	t.Run("json embedded in prose", func(t *testing.T) {
		fc := &fakeCompleter{text: "Here is the analysis:\n" + `{
  "riskLevel": "HIGH",
  "riskSummary": "Unlimited liability for the supplier.",
  "contractType": "service",
  "parties": ["Company ABC", {"name": "Client XYZ", "role": "client"}],
  "highRisks": ["Unlimited liability"],
  "mediumRisks": [],
  "dates": {"start": "2024-03-01", "end": null},
  "governingLaw": "Saudi Arabia"
}` + "\nLet me know if you need more."}
		o, _ := NewOrchestrator(fc)

		s, err := o.SummarizeContract(context.Background(), "contract text", constants.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeParsed, s.Mode)
		assert.Equal(t, constants.RiskHigh, s.RiskLevel)
		assert.Equal(t, "Unlimited liability for the supplier.", s.RiskSummary)
		assert.Equal(t, []string{"Company ABC", "Client XYZ"}, s.Parties)
		assert.Equal(t, []string{"Unlimited liability"}, s.HighRisks)
		assert.Empty(t, s.MediumRisks)
		assert.NotNil(t, s.LowRisks)
		assert.Equal(t, DateRange{Start: "2024-03-01"}, s.Dates)
		assert.Equal(t, "Saudi Arabia", s.GoverningLaw)
		assert.Empty(t, s.PaymentTerms)
		// "HIGH", an object party and a null end date are coerced but still flagged
		assert.Error(t, s.SchemaErr)
	})

	t.Run("arabic prompt variant", func(t *testing.T) {
		fc := &fakeCompleter{text: `{"riskLevel":"low","riskSummary":"لا توجد مخاطر جوهرية"}`}
		o, _ := NewOrchestrator(fc)

		s, err := o.SummarizeContract(context.Background(), "نص العقد", constants.LanguageArabic)
		require.NoError(t, err)
		assert.Equal(t, constants.RiskLow, s.RiskLevel)
		assert.NoError(t, s.SchemaErr)
		assert.Contains(t, fc.last().Prompt, "أجب باللغة العربية")
		assert.Contains(t, fc.last().Prompt, "نص العقد")
		assert.NotNil(t, fc.last().Schema)
	})

	t.Run("free text is approximated", func(t *testing.T) {
		fc := &fakeCompleter{text: "The contract is one-sided.\nHigh risk: unlimited liability\nHigh risk: personal guarantee\nHigh risk: liquidated damages\n"}
		o, _ := NewOrchestrator(fc)

		s, err := o.SummarizeContract(context.Background(), "contract text", constants.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, constants.ParseModeApproximated, s.Mode)
		assert.Equal(t, constants.RiskHigh, s.RiskLevel)
		assert.Equal(t, "The contract is one-sided.", s.RiskSummary)
		assert.NoError(t, s.SchemaErr)
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		fc := &fakeCompleter{err: context.DeadlineExceeded}
		o, _ := NewOrchestrator(fc)

		_, err := o.SummarizeContract(context.Background(), "contract text", constants.LanguageEnglish)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.ErrorIs(t, err, common.ErrAIUnavailable)
	})
}
