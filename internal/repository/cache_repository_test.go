package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	assert.Equal(t, "jadwal-api:jadwal:job:1", NewCacheRepository(nil, "jadwal-api", nil).key("jadwal:job:1"))
	assert.Equal(t, "jadwal:job:1", NewCacheRepository(nil, "", nil).key("jadwal:job:1"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "jadwal-api", nil)
	ctx := context.Background()

	var dest map[string]string
	assert.True(t, errors.Is(repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "k*"))
	assert.Error(t, repo.Ping(ctx))
}
