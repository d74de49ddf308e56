package questions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/metrics"
)

// Meta accompanies every answer, streamed or not.
type Meta struct {
	ResponseID string `json:"responseId"`
	Timestamp  string `json:"timestamp"`
	Model      string `json:"model"`
}

// Service answers follow-up questions about a prior analysis. The service
// holds no session state: callers replay conversation history each request.
type Service struct {
	LLM   llm.Client
	Model string
}

func (s *Service) newMeta() Meta {
	return Meta{
		ResponseID: uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Model:      s.Model,
	}
}

// Ask runs a single-shot question against the provider.
func (s *Service) Ask(ctx context.Context, question string, analysisContext json.RawMessage, history []llm.Turn, originalText string) (string, Meta, error) {
	prompt := llm.BuildQuestionPrompt(question, analysisContext, history, originalText)
	answer, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", Meta{}, err
	}
	return answer, s.newMeta(), nil
}

// Stream runs an incremental question, forwarding each fragment through emit
// as it arrives, and returns the concatenation of all fragments.
func (s *Service) Stream(ctx context.Context, question string, analysisContext json.RawMessage, history []llm.Turn, originalText string, emit func(chunk string) error) (string, Meta, error) {
	prompt := llm.BuildQuestionPrompt(question, analysisContext, history, originalText)
	var full []byte
	err := s.LLM.GenerateStream(ctx, prompt, func(chunk string) error {
		full = append(full, chunk...)
		return emit(chunk)
	})
	if err != nil {
		return string(full), Meta{}, err
	}
	metrics.IncQuestionStreamed()
	return string(full), s.newMeta(), nil
}
