package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"policy-backend/internal/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Reasoning models are slow; the pipeline allows a long single attempt.
const defaultTimeout = 5 * time.Minute

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey         string
	model          string
	maxPromptChars int
	baseURL        string
	httpClient     *http.Client
}

// NewClient constructs a new OpenAI client. A missing API key is not an error
// here; it surfaces as llm.ErrMissingAPIKey when an extraction is attempted, so
// the server still boots in environments without credentials.
func NewClient(apiKey, model string, maxPromptChars int) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:         strings.TrimSpace(apiKey),
		model:          model,
		maxPromptChars: maxPromptChars,
		baseURL:        defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ExtractPolicy sends the policy text to the chat completions endpoint and
// returns the raw JSON object the model produced.
func (c *Client) ExtractPolicy(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}

	prompt := llm.BuildPrompt(input.PolicyText, c.maxPromptChars)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.UpstreamError{Status: resp.StatusCode, Body: truncateBody(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response missing choices", llm.ErrEmptyResponse)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty message content", llm.ErrEmptyResponse)
	}
	logUsage(c.model, &parsed)

	content = stripCodeFences(content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: %s", llm.ErrMalformedResponse, truncateBody([]byte(content)))
	}
	return json.RawMessage(content), nil
}

// Health verifies the credential against the models endpoint.
func (c *Client) Health(ctx context.Context) error {
	if c.apiKey == "" {
		return llm.ErrMissingAPIKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &llm.UpstreamError{Status: resp.StatusCode}
	}
	return nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// stripCodeFences unwraps JSON the model wrapped in a markdown code block.
func stripCodeFences(content string) string {
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

func truncateBody(body []byte) string {
	const maxLen = 500
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func logUsage(model string, parsed *chatResponse) {
	if parsed.Usage == nil {
		log.Printf("llm response model=%s", model)
		return
	}
	log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens, parsed.Usage.TotalTokens)
}

var _ llm.Client = (*Client)(nil)
