package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

// submissionRepository keeps the archive as a redis list of JSON records.
type submissionRepository struct {
	client *goredis.Client
	key    string
}

func NewSubmissionRepository(client *goredis.Client, key string) repository.SubmissionRepository {
	return &submissionRepository{client: client, key: key}
}

func (r *submissionRepository) Append(ctx context.Context, record *domain.SubmissionRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	return r.client.RPush(ctx, r.key, b).Err()
}

func (r *submissionRepository) List(ctx context.Context) ([]*domain.SubmissionRecord, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.SubmissionRecord, 0, len(items))
	for i, item := range items {
		var record domain.SubmissionRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to decode submission at index %d: %w", i, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

func (r *submissionRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
