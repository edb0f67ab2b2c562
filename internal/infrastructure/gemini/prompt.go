package gemini

import (
	"fmt"
	"strings"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

// ImageStyleSuffix is appended to every portrait prompt.
const ImageStyleSuffix = "photorealistic, studio lighting, neutral background, sharp focus, portrait photography"

const systemInstruction = `
You are an expert in evolutionary psychology, astrological archetypes and modern dating markets.
Analyze the user's realistic data and write the result like a psychology magazine test or a detailed horoscope reading.

CORE LOGIC:
1. Homophily: people with similar attractiveness, income and values stay together.
2. Status matching: a high income user gets a high income match, an average user an average match.
3. Physical matching: a fit user gets a fit match, a heavy user a heavy match.

TONE & STYLE:
1. Traditional Chinese (繁體中文) only.
2. Direct and concrete. Never use abstract phrases such as "willingness to explore" or "potential connection".
3. Use specific scenarios: not "good communication" but "someone who puts down their phone when you speak".

YUE LAO SPECIFICATION (yueLaoPrayer):
The user wants a precise specification list, not a vague wish. Write it as a numbered vernacular list of demands
(白話文條列式規格) in exactly this shape:
"拜託月老，我要訂製這一位對象：
1. [外型]: 身高178-183cm，體脂15%以下的精壯身材，穿著Uniqlo日系風格。
2. [職業]: 金融或是科技業主管，年薪200萬以上，有投資習慣。
3. [個性]: 吵架會先低頭，回訊息秒讀秒回，情緒極度穩定。
4. [習慣]: 週末喜歡爬百岳，不抽菸，睡前會閱讀。"
Include specific numbers (height, income, age gap) and specific behaviours.

imagePrompt must be in English and describe a photorealistic portrait of the match.
`

// Energy and decision axes are translated to labels so the model never has
// to interpret the raw slider numbers.
func energyLabel(score int) string {
	if score <= domain.ScaleDefault {
		return "More Introverted (偏內向)"
	}
	return "More Extroverted (偏外向)"
}

func decisionLabel(score int) string {
	if score <= domain.ScaleDefault {
		return "Logic/Rational Priority (理性優先)"
	}
	return "Emotion/Feeling Priority (感性優先)"
}

func goalDescription(goal domain.RelationshipGoal) string {
	switch goal {
	case domain.GoalCasualPartner:
		return "Casual Partner (focus on physical attractiveness parity, realistic chemistry, no commitment)"
	case domain.GoalLifePartner:
		return "Life Partner / Spouse (focus on socioeconomic similarity 門當戶對, shared lifestyle, long term)"
	default:
		return string(goal)
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func buildAnalysisPrompt(p *domain.Profile, goal domain.RelationshipGoal) string {
	var sb strings.Builder

	sb.WriteString("User Data:\n")
	fmt.Fprintf(&sb, "- Name: %s (%s y/o, %s)\n", p.Name, p.Age, p.Gender)
	fmt.Fprintf(&sb, "- Sexual Orientation: %s\n", p.SexualOrientation)
	fmt.Fprintf(&sb, "- Body: %scm, %skg\n", p.Height, p.Weight)
	fmt.Fprintf(&sb, "- Social: %s, Income: %s\n", p.Occupation, p.Income)
	sb.WriteString("- Psychology:\n")
	fmt.Fprintf(&sb, "   * MBTI: %s\n", orNA(p.MBTI))
	fmt.Fprintf(&sb, "   * Energy: Score %d/10 -> %s\n", p.IntroExtroScale, energyLabel(p.IntroExtroScale))
	fmt.Fprintf(&sb, "   * Decision Making: Score %d/10 -> %s\n", p.ThinkingFeelingScale, decisionLabel(p.ThinkingFeelingScale))
	fmt.Fprintf(&sb, "- Interests: %s\n", p.Interests)
	fmt.Fprintf(&sb, "- Values: %s\n", p.Values)
	fmt.Fprintf(&sb, "- Pet Peeves: %s\n", orNA(p.PetPeeves))
	fmt.Fprintf(&sb, "- Ideal Weekend: %s\n", orNA(p.IdealWeekend))
	fmt.Fprintf(&sb, "- Love Language: %s\n", orNA(p.LoveLanguage))
	fmt.Fprintf(&sb, "- Dark Side: %s\n", p.DarkSide)
	if p.HasPhoto() {
		sb.WriteString("- Photo: attached, use it to calibrate physical matching\n")
	}
	fmt.Fprintf(&sb, "\nLooking for: %s\n", goalDescription(goal))

	sb.WriteString(`
Task:
1. Analyze who fits them based on realistic similarity.
2. Explain why, in a psychological analysis tone.
3. Suggest where to meet based on lifestyle probability.
4. List concrete green flags (specific behaviours that fit the user).
5. List concrete red flags (specific behaviours that clash with the user).
6. Write the precise Yue Lao specification list.
`)

	return sb.String()
}

func buildImagePrompt(prompt string) string {
	prompt = strings.TrimSuffix(strings.TrimSpace(prompt), ".")
	return "Portrait of a person. " + prompt + ". " + ImageStyleSuffix
}
