package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/qri-io/jsonschema"
)

// resultFields lists every field the remote service must return.
var resultFields = []string{
	"archetypeTitle", "tagline", "personalityTraits", "physicalDescription",
	"psychologicalProfile", "compatibilityScore", "greenFlags",
	"redFlags", "whereToMeet", "interactionAdvice", "yueLaoPrayer", "imagePrompt",
}

// resultJSONSchema re-checks the response locally; the remote schema is a
// request, not a guarantee.
const resultJSONSchema = `{
	"type": "object",
	"required": [
		"archetypeTitle", "tagline", "personalityTraits", "physicalDescription",
		"psychologicalProfile", "compatibilityScore", "greenFlags",
		"redFlags", "whereToMeet", "interactionAdvice", "yueLaoPrayer", "imagePrompt"
	],
	"properties": {
		"archetypeTitle":       {"type": "string", "minLength": 1},
		"tagline":              {"type": "string", "minLength": 1},
		"personalityTraits":    {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"physicalDescription":  {"type": "string", "minLength": 1},
		"psychologicalProfile": {"type": "string", "minLength": 1},
		"compatibilityScore":   {"type": "number", "minimum": 0, "maximum": 100},
		"greenFlags":           {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"redFlags":             {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"whereToMeet":          {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"interactionAdvice":    {"type": "string", "minLength": 1},
		"yueLaoPrayer":         {"type": "string", "minLength": 1},
		"imagePrompt":          {"type": "string", "minLength": 1}
	}
}`

func compileResultSchema() (*jsonschema.Schema, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(resultJSONSchema), rs); err != nil {
		return nil, fmt.Errorf("compile analysis result schema: %w", err)
	}
	return rs, nil
}

func analysisResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	list := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"archetypeTitle":       str("Creative psychological archetype name, e.g. '理性的建築師', '感性的流浪者'"),
			"tagline":              str("One sentence summary of the match vibe."),
			"personalityTraits":    list("5 adjectives describing the partner."),
			"physicalDescription":  str("Detailed visual description of the partner (height, build, style) that matches the user's level."),
			"psychologicalProfile": str("Deep analysis: 'Based on your [user trait], you need someone who [partner trait] because...'."),
			"compatibilityScore":   {Type: genai.TypeNumber, Description: "0-100"},
			"greenFlags":           list("5 very concrete behaviours, e.g. '會主動幫你剝蝦'. No abstract nouns."),
			"redFlags":             list("5 very concrete warning signs, e.g. '吃飯一直滑手機'. No abstract nouns."),
			"whereToMeet":          list("3 specific places, e.g. '誠品書店財經區', '週五晚上的World Gym'."),
			"interactionAdvice":    str("One piece of actionable advice on how to approach them."),
			"yueLaoPrayer":         str("The precise specification list, numbered: 1. [Category]: Details."),
			"imagePrompt":          str("English prompt for a photorealistic portrait of the match."),
		},
		Required: resultFields,
	}
}
