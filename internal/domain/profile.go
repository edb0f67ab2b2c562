package domain

import (
	"encoding/base64"
	"strings"
)

// Slider bounds for the two psychometric axes.
const (
	ScaleMin     = 1
	ScaleMax     = 10
	ScaleDefault = 5
)

type RelationshipGoal string

const (
	GoalCasualPartner RelationshipGoal = "CASUAL_PARTNER"
	GoalLifePartner   RelationshipGoal = "LIFE_PARTNER"
)

func (g RelationshipGoal) Valid() bool {
	return g == GoalCasualPartner || g == GoalLifePartner
}

// Profile is the self-reported questionnaire data of one submission.
// Numeric-looking fields stay strings because the form accepts free text.
type Profile struct {
	Name              string `json:"name"`
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	SexualOrientation string `json:"sexual_orientation"`
	Email             string `json:"email"`

	Height     string `json:"height"`
	Weight     string `json:"weight"`
	Occupation string `json:"occupation"`
	Income     string `json:"income"`

	MBTI                 string `json:"mbti,omitempty"`
	IntroExtroScale      int    `json:"intro_extro_scale" binding:"min=0,max=10"`
	ThinkingFeelingScale int    `json:"thinking_feeling_scale" binding:"min=0,max=10"`

	Interests    string `json:"interests"`
	Values       string `json:"values"`
	PetPeeves    string `json:"pet_peeves"`
	IdealWeekend string `json:"ideal_weekend"`
	LoveLanguage string `json:"love_language"`
	DarkSide     string `json:"dark_side"`

	// Photo is a data URI ("data:image/jpeg;base64,...") or empty.
	Photo string `json:"photo,omitempty"`
}

// NewProfile returns the form's starting state with both sliders at the midpoint.
func NewProfile() Profile {
	return Profile{
		IntroExtroScale:      ScaleDefault,
		ThinkingFeelingScale: ScaleDefault,
	}
}

func (p *Profile) HasPhoto() bool {
	return strings.TrimSpace(p.Photo) != ""
}

// DecodePhoto splits the photo data URI into its MIME type and raw bytes.
func (p *Profile) DecodePhoto() (string, []byte, error) {
	if !p.HasPhoto() {
		return "", nil, ErrNoPhoto
	}

	header, payload, ok := strings.Cut(p.Photo, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrInvalidPhoto
	}

	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mimeType == "" {
		return "", nil, ErrInvalidPhoto
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidPhoto
	}

	return mimeType, data, nil
}

// WithoutPhoto returns a copy with the attachment stripped, for sinks that
// must not receive binary data.
func (p Profile) WithoutPhoto() Profile {
	p.Photo = ""
	return p
}
