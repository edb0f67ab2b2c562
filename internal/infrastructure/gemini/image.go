package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
)

// GenerateMatchImage renders a portrait for the analysis image prompt. Every
// failure, including a response without an image part, is a
// *domain.ImageGenerationFailure.
func (c *GeminiClient) GenerateMatchImage(ctx context.Context, prompt string) (*domain.MatchImage, error) {
	resp, err := c.imageModel.GenerateContent(ctx, genai.Text(buildImagePrompt(prompt)))
	if err != nil {
		return nil, &domain.ImageGenerationFailure{Err: fmt.Errorf("generate content: %w", err)}
	}

	content, err := firstCandidate(resp)
	if err != nil {
		return nil, &domain.ImageGenerationFailure{Err: err}
	}

	for _, part := range content.Parts {
		blob, ok := part.(genai.Blob)
		if !ok || len(blob.Data) == 0 {
			continue
		}
		mimeType := blob.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		c.logger.Info("match image generated", slog.String("mime_type", mimeType), slog.Int("bytes", len(blob.Data)))
		return &domain.MatchImage{MIMEType: mimeType, Data: blob.Data}, nil
	}

	return nil, &domain.ImageGenerationFailure{Err: fmt.Errorf("no image generated")}
}
