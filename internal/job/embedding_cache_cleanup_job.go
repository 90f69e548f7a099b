package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultCacheMaxAgeDays = 30

type CachePruner interface {
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type EmbeddingCacheCleanupJob struct {
	cache      CachePruner
	maxAgeDays int
	now        func() time.Time
}

func NewEmbeddingCacheCleanupJob(cache CachePruner, maxAgeDays int) *EmbeddingCacheCleanupJob {
	if maxAgeDays <= 0 {
		maxAgeDays = defaultCacheMaxAgeDays
	}
	return &EmbeddingCacheCleanupJob{cache: cache, maxAgeDays: maxAgeDays, now: time.Now}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	if j.cache == nil {
		return nil
	}
	cutoff := j.now().Add(-time.Duration(j.maxAgeDays) * 24 * time.Hour).Unix()
	removed, err := j.cache.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	remaining, err := j.cache.Count(ctx)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("embedding cache pruned",
		zap.Int64("removed", removed), zap.Int64("remaining", remaining))
	return nil
}
