package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
)

// AnalyzeMatch sends the profile to the text model and returns the validated
// result. Every failure is a *domain.AnalysisFailure. There is no retry.
func (c *GeminiClient) AnalyzeMatch(ctx context.Context, profile domain.Profile, goal domain.RelationshipGoal) (*domain.AnalysisResult, error) {
	parts := []genai.Part{genai.Text(buildAnalysisPrompt(&profile, goal))}

	if profile.HasPhoto() {
		mimeType, data, err := profile.DecodePhoto()
		if err != nil {
			return nil, &domain.AnalysisFailure{Err: err}
		}
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: data})
	}

	resp, err := c.textModel.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &domain.AnalysisFailure{Err: fmt.Errorf("generate content: %w", err)}
	}

	content, err := firstCandidate(resp)
	if err != nil {
		return nil, &domain.AnalysisFailure{Err: err}
	}

	result, err := c.parseResult(ctx, responseText(content))
	if err != nil {
		return nil, &domain.AnalysisFailure{Err: err}
	}

	c.logger.Info("analysis completed",
		slog.String("archetype", result.ArchetypeTitle),
		slog.Float64("compatibility_score", result.CompatibilityScore),
	)
	return result, nil
}

func (c *GeminiClient) parseResult(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if text == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	keyErrs, err := c.schema.ValidateBytes(ctx, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("response is not valid json: %w", err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Error())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := c.validate.Struct(&result); err != nil {
		return nil, fmt.Errorf("invalid analysis result: %w", err)
	}

	return &result, nil
}
