package convert

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/noteforge/noteforge/internal/domain"
)

// OpenAIClient converts pages through the OpenAI Responses API.
type OpenAIClient struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates a Responses API converter. The SDK's own retry loop is disabled.
func NewOpenAIClient(apiKey, model, baseURL string, maxTokens int) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = string(shared.ChatModelGPT5Mini)
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAIClient{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Convert sends one page as an input image and returns the aggregated output text.
func (c *OpenAIClient) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
	encoded, err := encodeImage(image)
	if err != nil {
		return "", err
	}

	response, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(c.maxTokens)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(Prompt(role)),
						responses.ResponseInputContentUnionParam{
							OfInputImage: &responses.ResponseInputImageParam{
								ImageURL: openai.String(encoded.dataURL()),
								Detail:   responses.ResponseInputImageDetailHigh,
							},
						},
					},
					"user",
				),
			},
		},
	})
	if err != nil {
		return "", domain.ConversionError("openai request failed", err)
	}

	text := response.OutputText()
	return fragmentFrom(text)
}
