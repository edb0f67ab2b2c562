package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func respond(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func resultJSON(t *testing.T, mutate func(m map[string]any)) string {
	t.Helper()
	raw, err := json.Marshal(repositorytest.SampleResult())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	if mutate != nil {
		mutate(m)
	}

	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}

func newTestClient(t *testing.T, text, image *fakeGenerator) *GeminiClient {
	t.Helper()
	c, err := newGeminiClient(text, image, nil)
	require.NoError(t, err)
	return c
}

func TestAnalyzeMatch_Success(t *testing.T) {
	text := &fakeGenerator{resp: respond(genai.Text(resultJSON(t, nil)))}
	c := newTestClient(t, text, &fakeGenerator{})

	result, err := c.AnalyzeMatch(context.Background(), repositorytest.SampleProfile(), domain.GoalLifePartner)
	require.NoError(t, err)
	assert.Equal(t, repositorytest.SampleResult(), result)

	require.Len(t, text.parts, 2)
	prompt, ok := text.parts[0].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(prompt), "陳小美")
	assert.Contains(t, string(prompt), "More Introverted")
	assert.Contains(t, string(prompt), "Emotion/Feeling Priority")
	assert.Contains(t, string(prompt), "Life Partner")

	blob, ok := text.parts[1].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.NotEmpty(t, blob.Data)
}

func TestAnalyzeMatch_NoPhotoSendsTextOnly(t *testing.T) {
	text := &fakeGenerator{resp: respond(genai.Text(resultJSON(t, nil)))}
	c := newTestClient(t, text, &fakeGenerator{})

	p := repositorytest.SampleProfile()
	p.Photo = ""
	_, err := c.AnalyzeMatch(context.Background(), p, domain.GoalCasualPartner)
	require.NoError(t, err)
	assert.Len(t, text.parts, 1)
}

func TestAnalyzeMatch_StripsMarkdownFence(t *testing.T) {
	text := &fakeGenerator{resp: respond(genai.Text("```json\n" + resultJSON(t, nil) + "\n```"))}
	c := newTestClient(t, text, &fakeGenerator{})

	result, err := c.AnalyzeMatch(context.Background(), repositorytest.SampleProfile(), domain.GoalLifePartner)
	require.NoError(t, err)
	assert.Equal(t, "理性的建築師", result.ArchetypeTitle)
}

func TestAnalyzeMatch_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		edit func(p *domain.Profile)
	}{
		{name: "remote error", gen: &fakeGenerator{err: errors.New("connection reset")}},
		{name: "no candidates", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{name: "empty text", gen: &fakeGenerator{resp: respond(genai.Text("  "))}},
		{name: "not json", gen: &fakeGenerator{resp: respond(genai.Text("the stars are unclear"))}},
		{name: "missing field", gen: &fakeGenerator{resp: respond(genai.Text(resultJSON(t, func(m map[string]any) {
			delete(m, "yueLaoPrayer")
		})))}},
		{name: "score out of range", gen: &fakeGenerator{resp: respond(genai.Text(resultJSON(t, func(m map[string]any) {
			m["compatibilityScore"] = 140
		})))}},
		{name: "empty list", gen: &fakeGenerator{resp: respond(genai.Text(resultJSON(t, func(m map[string]any) {
			m["greenFlags"] = []string{}
		})))}},
		{name: "blank list entry", gen: &fakeGenerator{resp: respond(genai.Text(resultJSON(t, func(m map[string]any) {
			m["redFlags"] = []string{""}
		})))}},
		{
			name: "malformed photo",
			gen:  &fakeGenerator{resp: respond(genai.Text(resultJSON(t, nil)))},
			edit: func(p *domain.Profile) { p.Photo = "not-a-data-uri" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.gen, &fakeGenerator{})
			p := repositorytest.SampleProfile()
			if tt.edit != nil {
				tt.edit(&p)
			}

			result, err := c.AnalyzeMatch(context.Background(), p, domain.GoalLifePartner)
			assert.Nil(t, result)

			var failure *domain.AnalysisFailure
			assert.ErrorAs(t, err, &failure)
		})
	}
}

func TestGenerateMatchImage_Success(t *testing.T) {
	image := &fakeGenerator{resp: respond(
		genai.Text("here you go"),
		genai.Blob{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	)}
	c := newTestClient(t, &fakeGenerator{}, image)

	img, err := c.GenerateMatchImage(context.Background(), "East Asian man, late twenties.")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, "data:image/jpeg;base64,/9g=", img.DataURI())

	require.Len(t, image.parts, 1)
	prompt := string(image.parts[0].(genai.Text))
	assert.True(t, strings.HasPrefix(prompt, "Portrait of a person. East Asian man, late twenties. "))
	assert.True(t, strings.HasSuffix(prompt, ImageStyleSuffix))
}

func TestGenerateMatchImage_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "remote error", gen: &fakeGenerator{err: errors.New("quota exceeded")}},
		{name: "no candidates", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{name: "text only", gen: &fakeGenerator{resp: respond(genai.Text("I can't draw that"))}},
		{name: "empty blob", gen: &fakeGenerator{resp: respond(genai.Blob{MIMEType: "image/png"})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeGenerator{}, tt.gen)

			img, err := c.GenerateMatchImage(context.Background(), "prompt")
			assert.Nil(t, img)

			var failure *domain.ImageGenerationFailure
			assert.ErrorAs(t, err, &failure)
		})
	}
}

func TestAxisLabels(t *testing.T) {
	assert.Equal(t, "More Introverted (偏內向)", energyLabel(5))
	assert.Equal(t, "More Extroverted (偏外向)", energyLabel(6))
	assert.Equal(t, "Logic/Rational Priority (理性優先)", decisionLabel(1))
	assert.Equal(t, "Emotion/Feeling Priority (感性優先)", decisionLabel(10))
}

func TestResponseSchemaRequiresEveryField(t *testing.T) {
	s := analysisResponseSchema()
	assert.ElementsMatch(t, resultFields, s.Required)
	for _, f := range resultFields {
		assert.Contains(t, s.Properties, f)
	}
}
