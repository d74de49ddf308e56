package tts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/tts"
)

type fakeSpeechClient struct {
	result llm.SpeechResult
	err    error
	text   string
	voice  string
	style  string
}

func (f *fakeSpeechClient) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeSpeechClient) GenerateStream(ctx context.Context, prompt string, emit func(string) error) error {
	return errors.New("not implemented")
}

func (f *fakeSpeechClient) Synthesize(ctx context.Context, text, voiceName, stylePrompt string) (llm.SpeechResult, error) {
	f.text, f.voice, f.style = text, voiceName, stylePrompt
	return f.result, f.err
}

func newTestRouter(t *testing.T, client llm.Client, maxTextBytes int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tts.NewHandler(client, "test-tts-model", maxTextBytes).RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSynthesizeSuccess(t *testing.T) {
	client := &fakeSpeechClient{result: llm.SpeechResult{AudioBase64: "QUJD", MimeType: "audio/L16;rate=24000"}}
	r := newTestRouter(t, client, 900)

	w := postJSON(t, r, gin.H{"text": "Hello there.", "voiceName": "Puck", "stylePrompt": "calm and slow"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		AudioData string `json:"audioData"`
		MimeType  string `json:"mimeType"`
		Metadata  struct {
			ResponseID string `json:"responseId"`
			Model      string `json:"model"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.AudioData != "QUJD" || resp.MimeType != "audio/L16;rate=24000" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Metadata.ResponseID == "" || resp.Metadata.Model != "test-tts-model" {
		t.Fatalf("unexpected metadata %+v", resp.Metadata)
	}
	if client.voice != "Puck" || client.style != "calm and slow" {
		t.Fatalf("voice settings not forwarded: %q %q", client.voice, client.style)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	r := newTestRouter(t, &fakeSpeechClient{}, 900)

	w := postJSON(t, r, gin.H{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSynthesizeEnforcesByteLimit(t *testing.T) {
	r := newTestRouter(t, &fakeSpeechClient{}, 10)

	w := postJSON(t, r, gin.H{"text": strings.Repeat("a", 11)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over limit, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "maximum length") {
		t.Fatalf("expected limit message, got %s", w.Body.String())
	}
}

func TestSynthesizeZeroLimitDisablesCheck(t *testing.T) {
	client := &fakeSpeechClient{result: llm.SpeechResult{AudioBase64: "QQ==", MimeType: "audio/wav"}}
	r := newTestRouter(t, client, 0)

	w := postJSON(t, r, gin.H{"text": strings.Repeat("a", 5000)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with limit disabled, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSynthesizeProviderNotConfigured(t *testing.T) {
	r := newTestRouter(t, llm.PlaceholderClient{}, 900)

	w := postJSON(t, r, gin.H{"text": "Hello there."})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "provider_not_configured") {
		t.Fatalf("expected provider_not_configured code, got %s", w.Body.String())
	}
}
