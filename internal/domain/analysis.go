package domain

import "encoding/base64"

// AnalysisResult is the structured output of the remote text model.
// JSON names follow the remote response schema.
type AnalysisResult struct {
	ArchetypeTitle       string   `json:"archetypeTitle" validate:"required"`
	Tagline              string   `json:"tagline" validate:"required"`
	PersonalityTraits    []string `json:"personalityTraits" validate:"required,min=1,dive,required"`
	PhysicalDescription  string   `json:"physicalDescription" validate:"required"`
	PsychologicalProfile string   `json:"psychologicalProfile" validate:"required"`
	CompatibilityScore   float64  `json:"compatibilityScore" validate:"min=0,max=100"`
	GreenFlags           []string `json:"greenFlags" validate:"required,min=1,dive,required"`
	RedFlags             []string `json:"redFlags" validate:"required,min=1,dive,required"`
	WhereToMeet          []string `json:"whereToMeet" validate:"required,min=1,dive,required"`
	InteractionAdvice    string   `json:"interactionAdvice" validate:"required"`
	YueLaoPrayer         string   `json:"yueLaoPrayer" validate:"required"`
	ImagePrompt          string   `json:"imagePrompt" validate:"required"`
}

// MatchImage is the decoded portrait returned by the image model.
type MatchImage struct {
	MIMEType string
	Data     []byte
}

func (m *MatchImage) DataURI() string {
	return "data:" + m.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(m.Data)
}
