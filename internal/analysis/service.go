package analysis

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"legaldoc-backend/internal/account"
	"legaldoc-backend/internal/extract"
	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/telemetry"
)

const (
	// MinTextLen and MaxTextLen bound the document text accepted for
	// analysis, measured in characters and checked before any provider
	// call is made.
	MinTextLen = 100
	MaxTextLen = 100_000
)

// Service runs the document analysis pipeline.
type Service struct {
	LLM            llm.Client
	Model          string
	Accounts       *account.Service
	EnableAccounts bool
	RequireAccount bool
}

// Input is a resolved analysis request: exactly one of FilePath or Text is
// set by the handler before calling Analyze.
type Input struct {
	FilePath string
	FileExt  string
	Text     string
	Parties  llm.Parties
	Email    string
}

// Output is the successful pipeline result.
type Output struct {
	Analysis     Result
	OriginalText string
	UserInfo     *account.Info
}

// Analyze validates input, extracts text when a file was uploaded, invokes
// the provider, and normalizes its output. Temp file cleanup is owned by the
// caller; malformed model output is normalized, never surfaced as an error.
func (s *Service) Analyze(ctx context.Context, in Input) (Output, error) {
	started := time.Now()
	metrics.IncAnalysisStarted()

	hasFile := in.FilePath != ""
	hasText := in.Text != ""
	if hasFile == hasText {
		metrics.IncAnalysisFailed()
		return Output{}, ErrMissingInput
	}

	text := in.Text
	if hasFile {
		extracted, err := extract.Text(in.FilePath, in.FileExt)
		if err != nil {
			metrics.IncAnalysisFailed()
			return Output{}, err
		}
		text = extracted
	}

	textLen := utf8.RuneCountInString(text)
	if textLen < MinTextLen {
		metrics.IncAnalysisFailed()
		return Output{}, ErrTooShort
	}
	if textLen > MaxTextLen {
		metrics.IncAnalysisFailed()
		return Output{}, ErrTooLong
	}

	var userInfo *account.Info
	if s.EnableAccounts {
		if in.Email == "" {
			metrics.IncAnalysisFailed()
			return Output{}, ErrMissingEmail
		}
		info, err := s.Accounts.Lookup(ctx, in.Email)
		if err != nil {
			telemetry.Error("analysis.account_lookup_failed", map[string]any{
				"err": err.Error(),
			})
			info = account.Info{Email: in.Email}
		}
		if s.RequireAccount && !info.EmailRecognized {
			metrics.IncAnalysisFailed()
			return Output{}, ErrUnknownAccount
		}
		userInfo = &info
	}

	raw, err := s.LLM.Generate(ctx, llm.BuildAnalysisPrompt(text, in.Parties))
	if err != nil {
		metrics.IncAnalysisFailed()
		return Output{}, fmt.Errorf("provider call: %w", err)
	}

	result := Normalize(raw, in.Parties, text, s.Model)
	if result.Metadata.Error != "" {
		metrics.IncAnalysisDegraded()
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)

	return Output{
		Analysis:     result,
		OriginalText: text,
		UserInfo:     userInfo,
	}, nil
}
