package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("GEMINI_API_BASE", srv.URL)
	c, err := NewClient("test-key", "test-model", "test-tts-model")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "model", "tts"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", "", "tts"); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "hello from the model"}}}},
			},
		})
	}))

	text, err := c.Generate(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "hello from the model" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key header %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "say hello" {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	}))

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected API error to surface, got %v", err)
	}
}

func TestGenerateStream(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "alt=sse" {
			t.Errorf("expected alt=sse query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"The ", "answer ", "is here."} {
			payload, _ := json.Marshal(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
	}))

	var chunks []string
	err := c.GenerateStream(context.Background(), "prompt", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if strings.Join(chunks, "") != "The answer is here." {
		t.Fatalf("unexpected chunks %q", chunks)
	}
}

func TestGenerateStreamErrorEvent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`+"\n\n")
	}))

	err := c.GenerateStream(context.Background(), "prompt", func(string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/L16;rate=24000", "data": "QUJDRA=="}},
				}}},
			},
		})
	}))

	result, err := c.Synthesize(context.Background(), "Read this aloud.", "Puck", "cheerfully")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.AudioBase64 != "QUJDRA==" || result.MimeType != "audio/L16;rate=24000" {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotPath != "/models/test-tts-model:generateContent" {
		t.Fatalf("expected tts model path, got %q", gotPath)
	}
	cfg := gotBody.GenerationConfig
	if cfg == nil || len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("expected AUDIO modality, got %+v", cfg)
	}
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Puck" {
		t.Fatalf("unexpected voice config %+v", cfg.SpeechConfig)
	}
	if !strings.HasPrefix(gotBody.Contents[0].Parts[0].Text, "cheerfully: ") {
		t.Fatalf("expected style prefix in prompt, got %q", gotBody.Contents[0].Parts[0].Text)
	}
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	var gotBody generateRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/wav", "data": "QQ=="}},
				}}},
			},
		})
	}))

	if _, err := c.Synthesize(context.Background(), "text", "", ""); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if got := gotBody.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Kore" {
		t.Fatalf("expected default voice Kore, got %q", got)
	}
}
