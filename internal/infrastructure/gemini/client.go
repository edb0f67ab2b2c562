package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"
	"github.com/qri-io/jsonschema"
	"google.golang.org/api/option"
)

// contentGenerator is the part of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client     *genai.Client
	textModel  contentGenerator
	imageModel contentGenerator
	schema     *jsonschema.Schema
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	textModel := client.GenerativeModel(cfg.TextModel)
	textModel.SetTemperature(0.9)
	textModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	textModel.ResponseMIMEType = "application/json"
	textModel.ResponseSchema = analysisResponseSchema()

	imageModel := client.GenerativeModel(cfg.ImageModel)

	c, err := newGeminiClient(textModel, imageModel, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	c.client = client
	return c, nil
}

func newGeminiClient(textModel, imageModel contentGenerator, logger *slog.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := compileResultSchema()
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		textModel:  textModel,
		imageModel: imageModel,
		schema:     schema,
		validate:   validator.New(),
		logger:     logger.With(slog.String("component", "gemini")),
	}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func firstCandidate(resp *genai.GenerateContentResponse) (*genai.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}
	return resp.Candidates[0].Content, nil
}

func responseText(content *genai.Content) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(sb.String())
	// Clean up markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
