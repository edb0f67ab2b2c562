package repository

import (
	"context"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

// SubmissionRepository is the append-only submission archive.
type SubmissionRepository interface {
	Append(ctx context.Context, record *domain.SubmissionRecord) error
	// List returns all records in insertion order.
	List(ctx context.Context) ([]*domain.SubmissionRecord, error)
	Clear(ctx context.Context) error
}
