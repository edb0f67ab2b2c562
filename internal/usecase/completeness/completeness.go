package completeness

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

// Threshold is the minimum score a profile needs before any remote call.
const Threshold = 80

// checklist is the fixed set of fields counted by Score. Free-text fields
// outside it (pet peeves, ideal weekend, love language, photo) never count.
var checklist = []func(p *domain.Profile) bool{
	func(p *domain.Profile) bool { return filled(p.Name) },
	func(p *domain.Profile) bool { return filled(p.Age) },
	func(p *domain.Profile) bool { return filled(p.Gender) },
	func(p *domain.Profile) bool { return filled(p.SexualOrientation) },
	func(p *domain.Profile) bool { return filled(p.Height) },
	func(p *domain.Profile) bool { return filled(p.Weight) },
	func(p *domain.Profile) bool { return filled(p.Occupation) },
	func(p *domain.Profile) bool { return filled(p.Income) },
	func(p *domain.Profile) bool { return filled(p.Email) },
	func(p *domain.Profile) bool { return filled(p.MBTI) },
	func(p *domain.Profile) bool { return p.IntroExtroScale > 0 },
	func(p *domain.Profile) bool { return p.ThinkingFeelingScale > 0 },
	func(p *domain.Profile) bool { return filled(p.Interests) },
	func(p *domain.Profile) bool { return filled(p.Values) },
	func(p *domain.Profile) bool { return filled(p.DarkSide) },
}

// Score returns the percentage of checklist fields filled, rounded to the
// nearest integer.
func Score(p domain.Profile) int {
	count := 0
	for _, check := range checklist {
		if check(&p) {
			count++
		}
	}
	return int(math.Round(float64(count) / float64(len(checklist)) * 100))
}

func Sufficient(score int) bool {
	return score >= Threshold
}

// Check returns an error wrapping domain.ErrInsufficientData when the profile
// does not pass the gate.
func Check(p domain.Profile) error {
	if score := Score(p); !Sufficient(score) {
		return fmt.Errorf("%w: %d%% complete, %d%% required", domain.ErrInsufficientData, score, Threshold)
	}
	return nil
}

func filled(s string) bool {
	return len(strings.TrimSpace(s)) > 0
}
