// Package repositorytest holds the behaviour every SubmissionRepository
// implementation must share.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
)

func SampleProfile() domain.Profile {
	p := domain.NewProfile()
	p.Name = "陳小美"
	p.Age = "29"
	p.Gender = "female"
	p.SexualOrientation = "heterosexual"
	p.Email = "mei@example.com"
	p.Height = "165"
	p.Weight = "52"
	p.Occupation = "UX designer"
	p.Income = "1.2M TWD"
	p.MBTI = "INFJ"
	p.IntroExtroScale = 3
	p.ThinkingFeelingScale = 8
	p.Interests = "hiking, indie film"
	p.Values = "honesty, family"
	p.PetPeeves = "phone at dinner"
	p.IdealWeekend = "mountain trail then hot pot"
	p.LoveLanguage = "acts of service"
	p.DarkSide = "overthinks every text"
	p.Photo = "data:image/png;base64,iVBORw0KGgo="
	return p
}

func SampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ArchetypeTitle:       "理性的建築師",
		Tagline:              "A steady hand for a restless heart",
		PersonalityTraits:    []string{"calm", "curious", "loyal"},
		PhysicalDescription:  "178cm, runner's build",
		PsychologicalProfile: "Balances your feeling-first decisions",
		CompatibilityScore:   87,
		GreenFlags:           []string{"puts the phone down when you talk"},
		RedFlags:             []string{"rude to waiters"},
		WhereToMeet:          []string{"bookstore finance section"},
		InteractionAdvice:    "Ask about their last trail run",
		YueLaoPrayer:         "拜託月老，我要訂製這一位對象：\n1. [外型]: 178cm",
		ImagePrompt:          "East Asian man, late twenties, trail runner",
	}
}

func newRecord(submissionID uuid.UUID, result *domain.AnalysisResult) *domain.SubmissionRecord {
	return &domain.SubmissionRecord{
		ID:               uuid.New(),
		SubmissionID:     submissionID,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		RelationshipGoal: domain.GoalLifePartner,
		Profile:          SampleProfile(),
		AnalysisResult:   result,
	}
}

// Run exercises a fresh, empty repository returned by newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) repository.SubmissionRepository) {
	t.Run("EmptyList", func(t *testing.T) {
		repo := newRepo(t)
		records, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("RoundTripPreservesProfile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		want := newRecord(uuid.New(), nil)

		require.NoError(t, repo.Append(ctx, want))

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.SubmissionID, got.SubmissionID)
		assert.Equal(t, want.RelationshipGoal, got.RelationshipGoal)
		assert.Equal(t, want.Profile, got.Profile)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
		assert.Nil(t, got.AnalysisResult)
	})

	t.Run("PreAndPostAnalysisRecords", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		submissionID := uuid.New()
		pre := newRecord(submissionID, nil)
		post := newRecord(submissionID, SampleResult())

		require.NoError(t, repo.Append(ctx, pre))
		require.NoError(t, repo.Append(ctx, post))

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, pre.ID, records[0].ID)
		assert.False(t, records[0].HasAnalysis())
		assert.Equal(t, post.ID, records[1].ID)
		require.True(t, records[1].HasAnalysis())
		assert.Equal(t, *SampleResult(), *records[1].AnalysisResult)
		assert.Equal(t, records[0].SubmissionID, records[1].SubmissionID)
	})

	t.Run("InsertionOrder", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []uuid.UUID
		for i := 0; i < 5; i++ {
			rec := newRecord(uuid.New(), nil)
			ids = append(ids, rec.ID)
			require.NoError(t, repo.Append(ctx, rec))
		}

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, len(ids))
		for i, rec := range records {
			assert.Equal(t, ids[i], rec.ID)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, newRecord(uuid.New(), nil)))
		require.NoError(t, repo.Append(ctx, newRecord(uuid.New(), SampleResult())))

		require.NoError(t, repo.Clear(ctx))

		records, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		require.NoError(t, repo.Append(ctx, newRecord(uuid.New(), nil)))
		records, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}
