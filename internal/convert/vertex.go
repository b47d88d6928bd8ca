package convert

import (
	"context"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/noteforge/noteforge/internal/domain"
)

const defaultVertexModel = "gemini-2.5-flash"

// VertexClient converts pages with a Gemini model on Vertex AI.
type VertexClient struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
}

// NewVertexClient dials Vertex AI. Credentials come from the ambient Google environment.
func NewVertexClient(ctx context.Context, projectID, region, model string, maxTokens int) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, domain.InternalError("vertex project and region must be set", nil)
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, domain.InternalError("create vertex client", err)
	}

	if model == "" {
		model = defaultVertexModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	gm := baseClient.GenerativeModel(model)
	gm.SetMaxOutputTokens(int32(maxTokens))
	gm.SetTemperature(0)

	return &VertexClient{model: gm, baseClient: baseClient}, nil
}

// Convert sends the role prompt and the inline image, concatenating the text parts of the first candidate.
func (c *VertexClient) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
	encoded, err := encodeImage(image)
	if err != nil {
		return "", err
	}

	// ImageData wants the subtype only ("png", not "image/png").
	format := strings.TrimPrefix(encoded.mediaType, "image/")

	resp, err := c.model.GenerateContent(ctx, genai.Text(Prompt(role)), genai.ImageData(format, encoded.raw))
	if err != nil {
		return "", domain.ConversionError("vertex request failed", err)
	}

	text := extractText(resp)
	return fragmentFrom(text)
}

// Close releases the underlying gRPC connection.
func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
