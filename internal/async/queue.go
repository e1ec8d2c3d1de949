package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
)

var ErrPoolClosed = errors.New("pool is shutting down")

// Job is one document to analyze: either Path, or Data with Format.
type Job struct {
	ID          string
	Path        string
	Data        []byte
	Format      constants.Format
	Language    constants.Language
	SubmittedAt time.Time

	seq int
}

type Result struct {
	Job      Job
	Analysis *analysis.ContractAnalysis
	Err      error
	Elapsed  time.Duration
}

// Analyzer is satisfied by *analysis.Service.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, format constants.Format, lang constants.Language) (*analysis.ContractAnalysis, error)
	AnalyzeFile(ctx context.Context, path string, lang constants.Language) (*analysis.ContractAnalysis, error)
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

var _ Queue = (*Pool)(nil)
