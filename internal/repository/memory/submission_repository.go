package memory

import (
	"context"
	"sync"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
)

type submissionRepository struct {
	mu      sync.RWMutex
	records []domain.SubmissionRecord
}

func NewSubmissionRepository() repository.SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Append(ctx context.Context, record *domain.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, copyRecord(record))
	return nil
}

func (r *submissionRepository) List(ctx context.Context) ([]*domain.SubmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.SubmissionRecord, 0, len(r.records))
	for i := range r.records {
		rec := copyRecord(&r.records[i])
		out = append(out, &rec)
	}
	return out, nil
}

func (r *submissionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return nil
}

// copyRecord detaches the analysis result so callers cannot mutate stored data.
func copyRecord(record *domain.SubmissionRecord) domain.SubmissionRecord {
	rec := *record
	if record.AnalysisResult != nil {
		result := *record.AnalysisResult
		result.PersonalityTraits = append([]string(nil), result.PersonalityTraits...)
		result.GreenFlags = append([]string(nil), result.GreenFlags...)
		result.RedFlags = append([]string(nil), result.RedFlags...)
		result.WhereToMeet = append([]string(nil), result.WhereToMeet...)
		rec.AnalysisResult = &result
	}
	return rec
}
