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
	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	defaultAnthropicVersion = "2023-06-01"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultMaxTokens        = 1024
)

// AnthropicClient converts pages with the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	model      string
	url        string
	version    string
	maxTokens  int
	httpClient *http.Client
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// AnthropicOptions configures an AnthropicClient. Zero values take defaults.
type AnthropicOptions struct {
	APIKey     string
	Model      string
	URL        string
	Version    string
	MaxTokens  int
	HTTPClient *http.Client
}

// NewAnthropicClient creates a Messages API converter.
func NewAnthropicClient(opts AnthropicOptions) *AnthropicClient {
	c := &AnthropicClient{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		url:        opts.URL,
		version:    opts.Version,
		maxTokens:  opts.MaxTokens,
		httpClient: opts.HTTPClient,
	}
	if c.model == "" {
		c.model = defaultAnthropicModel
	}
	if c.url == "" {
		c.url = defaultAnthropicURL
	}
	if c.version == "" {
		c.version = defaultAnthropicVersion
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

// Convert sends one page with its role instruction and returns the first text block.
func (c *AnthropicClient) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
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
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.ConversionError("failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", domain.ConversionError(
			fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.ConversionError("failed to parse response", err)
	}

	if len(parsed.Content) == 0 {
		return "", domain.ConversionError("no content in response", nil)
	}

	return fragmentFrom(parsed.Content[0].Text)
}

func (c *AnthropicClient) buildRequest(image domain.PageImage, role domain.PageRole) (*anthropicRequest, error) {
	encoded, err := encodeImage(image)
	if err != nil {
		return nil, err
	}

	return &anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContent{
				{Type: "text", Text: Prompt(role)},
				{Type: "image", Source: &anthropicSource{
					Type:      "base64",
					MediaType: encoded.mediaType,
					Data:      encoded.base64,
				}},
			},
		}},
	}, nil
}
