package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
	"github.com/joseph-ayodele/contract-analyzer/internal/common"
)

const (
	ServiceName   = "contractanalyzer.v1.Analyzer"
	AnalyzeMethod = "/" + ServiceName + "/Analyze"
)

// Request keys of the Analyze call. The response is the analysis JSON as a Struct.
const (
	FieldDocument = "document" // base64
	FieldFormat   = "format"
	FieldLanguage = "language"
	FieldFilename = "filename"
)

type Analyzer interface {
	Analyze(ctx context.Context, data []byte, format constants.Format, lang constants.Language) (*analysis.ContractAnalysis, error)
}

type AnalyzerServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type AnalyzerService struct {
	analyzer Analyzer
	maxBytes int
	logger   *slog.Logger
}

func NewAnalyzerService(a Analyzer, maxDocumentMB int, logger *slog.Logger) *AnalyzerService {
	if maxDocumentMB <= 0 {
		maxDocumentMB = constants.DefaultMaxDocumentMB
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzerService{analyzer: a, maxBytes: maxDocumentMB << 20, logger: logger}
}

func (s *AnalyzerService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	encoded := fields[FieldDocument].GetStringValue()
	formatStr := strings.TrimSpace(fields[FieldFormat].GetStringValue())
	filename := fields[FieldFilename].GetStringValue()
	langStr := fields[FieldLanguage].GetStringValue()

	if formatStr == "" && filename != "" {
		formatStr = filepath.Ext(filename)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.logger.Error("analyze.request.invalid", "error", err)
		return nil, common.InvalidArgumentErrorf("%s must be base64: %v", FieldDocument, err)
	}

	v := common.NewValidator().
		Field(FieldDocument, data, common.Required, common.MaxBytes(s.maxBytes)).
		Field(FieldFormat, formatStr, common.Required).
		Field(FieldLanguage, langStr, common.OneOf(string(constants.LanguageEnglish), string(constants.LanguageArabic)))
	if err := v.Err(); err != nil {
		s.logger.Error("analyze.request.invalid", "error", err)
		return nil, common.GRPCStatus(err)
	}

	format, ok := constants.ParseFormat(formatStr)
	if !ok {
		return nil, common.GRPCStatus(&common.UnsupportedFormatError{Format: formatStr})
	}

	s.logger.Info("analyze.request", "format", format, "language", langStr, "filename", filename, "bytes", len(data))
	res, err := s.analyzer.Analyze(ctx, data, format, constants.ParseLanguage(langStr))
	if err != nil {
		s.logger.Error("analyze.failed", "filename", filename, "error", err)
		return nil, common.GRPCStatus(err)
	}

	out, err := toStruct(res)
	if err != nil {
		s.logger.Error("analyze.encode.failed", "error", err)
		return nil, common.InternalError("encode analysis")
	}
	return out, nil
}

func toStruct(a *analysis.ContractAnalysis) (*structpb.Struct, error) {
	bs, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(bs, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func RegisterAnalyzerServer(s grpc.ServiceRegistrar, srv AnalyzerServer) {
	s.RegisterService(&analyzerServiceDesc, srv)
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AnalyzeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalyzerServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var analyzerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contractanalyzer/v1/analyzer.proto",
}

// AnalyzerClient calls a remote Analyzer service.
type AnalyzerClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalyzerClient(cc grpc.ClientConnInterface) *AnalyzerClient {
	return &AnalyzerClient{cc: cc}
}

func (c *AnalyzerClient) Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
