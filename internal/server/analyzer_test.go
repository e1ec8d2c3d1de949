package server

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

type fakeAnalyzer struct {
	gotData   []byte
	gotFormat constants.Format
	gotLang   constants.Language
	gotReqID  string
	err       error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, data []byte, format constants.Format, lang constants.Language) (*analysis.ContractAnalysis, error) {
	f.gotData, f.gotFormat, f.gotLang = data, format, lang
	f.gotReqID = common.RequestIDFromContext(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &analysis.ContractAnalysis{
		RequestID:    f.gotReqID,
		ContractType: constants.ContractService,
		RiskLevel:    constants.RiskMedium,
		Status:       constants.AnalysisStatusComplete,
		Language:     lang,
		SourceFormat: format,
	}, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func dial(t *testing.T, fa *fakeAnalyzer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(NewAnalyzerService(fa, 1, discard()), discard())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAnalyze_OverGRPC(t *testing.T) {
	fa := &fakeAnalyzer{}
	conn := dial(t, fa)

	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")
	out, err := NewAnalyzerClient(conn).Analyze(ctx, request(t, map[string]any{
		FieldDocument: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		FieldFilename: "lease.PDF",
		FieldLanguage: "ar",
	}))
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4"), fa.gotData)
	assert.Equal(t, constants.PDF, fa.gotFormat)
	assert.Equal(t, constants.LanguageArabic, fa.gotLang)
	assert.Equal(t, "req-42", fa.gotReqID)

	m := out.AsMap()
	assert.Equal(t, "service", m["contractType"])
	assert.Equal(t, "medium", m["riskLevel"])
	assert.Equal(t, "req-42", m["requestId"])
}

func TestAnalyze_Health(t *testing.T) {
	conn := dial(t, &fakeAnalyzer{})
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestAnalyze_InvalidRequests(t *testing.T) {
	svc := NewAnalyzerService(&fakeAnalyzer{}, 1, discard())
	doc := base64.StdEncoding.EncodeToString([]byte("data"))
	big := base64.StdEncoding.EncodeToString(make([]byte, 2<<20))

	tests := []struct {
		name   string
		fields map[string]any
		code   codes.Code
	}{
		{"missing document", map[string]any{FieldFormat: "pdf"}, codes.InvalidArgument},
		{"bad base64", map[string]any{FieldDocument: "!!!", FieldFormat: "pdf"}, codes.InvalidArgument},
		{"missing format", map[string]any{FieldDocument: doc}, codes.InvalidArgument},
		{"unsupported format", map[string]any{FieldDocument: doc, FieldFormat: "png"}, codes.InvalidArgument},
		{"bad language", map[string]any{FieldDocument: doc, FieldFormat: "pdf", FieldLanguage: "fr"}, codes.InvalidArgument},
		{"too large", map[string]any{FieldDocument: big, FieldFormat: "docx"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), request(t, tt.fields))
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestAnalyze_NilLoggerFallsBackToDefault(t *testing.T) {
	svc := NewAnalyzerService(&fakeAnalyzer{}, 1, nil)

	var err error
	require.NotPanics(t, func() {
		_, err = svc.Analyze(context.Background(), request(t, map[string]any{FieldFormat: "pdf"}))
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAnalyze_MapsPipelineErrors(t *testing.T) {
	fa := &fakeAnalyzer{err: common.NewExtractionError(constants.PDF, errors.New("broken xref"))}
	svc := NewAnalyzerService(fa, 0, discard())

	_, err := svc.Analyze(context.Background(), request(t, map[string]any{
		FieldDocument: base64.StdEncoding.EncodeToString([]byte("x")),
		FieldFormat:   "pdf",
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, constants.LanguageEnglish, fa.gotLang)
}
