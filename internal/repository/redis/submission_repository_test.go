package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

func newClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSubmissionRepository_Redis(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.SubmissionRepository {
		client, _ := newClient(t)
		return NewSubmissionRepository(client, "test:submissions")
	})
}

func TestSubmissionRepository_CorruptEntry(t *testing.T) {
	client, mr := newClient(t)
	repo := NewSubmissionRepository(client, "test:submissions")

	_, err := mr.Push("test:submissions", "{not json")
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	assert.ErrorContains(t, err, "index 0")
}
