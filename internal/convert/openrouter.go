package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/noteforge/noteforge/internal/domain"
)

const (
	openRouterURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel = "google/gemini-2.5-flash"
)

// OpenRouterClient converts pages through the OpenRouter chat completions API.
type OpenRouterClient struct {
	apiKey     string
	model      string
	url        string
	maxTokens  int
	httpClient *http.Client
}

// Message represents a chat message
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image)
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents an image URL in the message
type ImageURL struct {
	URL string `json:"url"`
}

// ChatRequest is the chat completions request body.
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Stream    bool      `json:"stream"`
}

// ChatResponse is the subset of the completion response we read.
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice
type Choice struct {
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the assistant message of a choice.
type ChoiceMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// NewOpenRouterClient creates a new OpenRouter converter
func NewOpenRouterClient(apiKey, model, url string, maxTokens int) *OpenRouterClient {
	if model == "" {
		model = defaultOpenRouterModel
	}
	if url == "" {
		url = openRouterURL
	}

	return &OpenRouterClient{
		apiKey:     apiKey,
		model:      model,
		url:        url,
		maxTokens:  maxTokens,
		httpClient: &http.Client{},
	}
}

// Convert sends one page and returns the first choice's text.
func (c *OpenRouterClient) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
	req, err := c.buildRequest(image, role)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", domain.ConversionError("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", domain.ConversionError("failed to build request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/noteforge/noteforge")
	httpReq.Header.Set("X-Title", "NoteForge")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.ConversionError("failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", domain.ConversionError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	var parsed ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.ConversionError("failed to parse response", err)
	}

	if len(parsed.Choices) == 0 {
		return "", domain.ConversionError("no content in response", nil)
	}

	return fragmentFrom(parsed.Choices[0].Message.Content)
}

// buildRequest constructs the API request with the image
func (c *OpenRouterClient) buildRequest(image domain.PageImage, role domain.PageRole) (*ChatRequest, error) {
	encoded, err := encodeImage(image)
	if err != nil {
		return nil, err
	}

	msg := Message{
		Role: "user",
		Content: []ContentPart{
			{
				Type: "text",
				Text: Prompt(role),
			},
			{
				Type: "image_url",
				ImageURL: &ImageURL{
					URL: encoded.dataURL(),
				},
			},
		},
	}

	return &ChatRequest{
		Model:     c.model,
		Messages:  []Message{msg},
		MaxTokens: c.maxTokens,
		Stream:    false,
	}, nil
}
