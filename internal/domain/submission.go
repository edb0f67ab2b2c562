package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionRecord is one archive entry. The pre-analysis and post-analysis
// writes of the same attempt share SubmissionID but are separate records.
type SubmissionRecord struct {
	ID               uuid.UUID        `json:"id"`
	SubmissionID     uuid.UUID        `json:"submission_id"`
	CreatedAt        time.Time        `json:"created_at"`
	RelationshipGoal RelationshipGoal `json:"relationship_goal"`
	Profile          Profile          `json:"profile"`
	AnalysisResult   *AnalysisResult  `json:"analysis_result,omitempty"`
}

func (r *SubmissionRecord) HasAnalysis() bool {
	return r.AnalysisResult != nil
}
