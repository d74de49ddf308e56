package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"legaldoc-backend/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements llm.Client against the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	ttsModel   string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, model, ttsModel string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	baseURL := defaultBaseURL
	if raw := strings.TrimSpace(os.Getenv("GEMINI_API_BASE")); raw != "" {
		baseURL = strings.TrimSuffix(raw, "/")
	}
	return &Client{
		apiKey:   apiKey,
		model:    model,
		ttsModel: ttsModel,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature        *float32      `json:"temperature,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate runs a single-shot completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := c.post(ctx, c.endpoint(c.model, "generateContent", false), textRequest(prompt, nil))
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	text := firstText(parsed)
	if text == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return text, nil
}

// GenerateStream runs an incremental completion over the SSE endpoint and
// forwards each text fragment through emit as it arrives.
func (c *Client) GenerateStream(ctx context.Context, prompt string, emit func(string) error) error {
	payload, err := json.Marshal(textRequest(prompt, nil))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.model, "streamGenerateContent", true), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.wrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gemini stream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var parsed generateResponse
		if err := json.Unmarshal([]byte(data), &parsed); err != nil {
			continue
		}
		if parsed.Error != nil {
			return fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
		}
		if text := firstText(parsed); text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// Synthesize converts text to speech on the TTS model.
func (c *Client) Synthesize(ctx context.Context, text, voiceName, stylePrompt string) (llm.SpeechResult, error) {
	if strings.TrimSpace(c.ttsModel) == "" {
		return llm.SpeechResult{}, fmt.Errorf("GEMINI_TTS_MODEL is required")
	}
	if strings.TrimSpace(voiceName) == "" {
		voiceName = "Kore"
	}
	prompt := text
	if strings.TrimSpace(stylePrompt) != "" {
		prompt = stylePrompt + ": " + text
	}
	reqBody := textRequest(prompt, &generationConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &speechConfig{
			VoiceConfig: voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceName},
			},
		},
	})

	body, err := c.post(ctx, c.endpoint(c.ttsModel, "generateContent", false), reqBody)
	if err != nil {
		return llm.SpeechResult{}, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.SpeechResult{}, fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return llm.SpeechResult{}, fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return llm.SpeechResult{
					AudioBase64: p.InlineData.Data,
					MimeType:    p.InlineData.MimeType,
				}, nil
			}
		}
	}
	return llm.SpeechResult{}, errors.New("gemini response missing audio data")
}

func (c *Client) post(ctx context.Context, url string, reqBody generateRequest) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrapTransport(err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *Client) wrapTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return fmt.Errorf("gemini request timeout: %w", err)
	}
	return err
}

func (c *Client) endpoint(model, method string, sse bool) string {
	url := fmt.Sprintf("%s/models/%s:%s", c.baseURL, model, method)
	if sse {
		url += "?alt=sse"
	}
	return url
}

func textRequest(prompt string, cfg *generationConfig) generateRequest {
	return generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: cfg,
	}
}

func firstText(resp generateResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

var _ llm.Client = (*Client)(nil)
