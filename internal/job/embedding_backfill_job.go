package job

import (
	"context"
	"errors"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/embedding"
)

const defaultBackfillBatch = 50

type Backfiller interface {
	Backfill(ctx context.Context, limit int) (int, error)
}

// EmbeddingBackfillJob embeds resumes and jobs stored while the embedding
// providers were down.
type EmbeddingBackfillJob struct {
	embeddings Backfiller
	batch      int
}

func NewEmbeddingBackfillJob(embeddings Backfiller, batch int) *EmbeddingBackfillJob {
	if batch <= 0 {
		batch = defaultBackfillBatch
	}
	return &EmbeddingBackfillJob{embeddings: embeddings, batch: batch}
}

func (j *EmbeddingBackfillJob) Name() string {
	return "embedding_backfill"
}

func (j *EmbeddingBackfillJob) Run(ctx context.Context) error {
	if j.embeddings == nil {
		return nil
	}
	done, err := j.embeddings.Backfill(ctx, j.batch)
	if errors.Is(err, embedding.ErrModelUnavailable) {
		logutil.GetLogger(ctx).Warn("embedding backfill paused, models unavailable", zap.Int("embedded", done))
		return nil
	}
	if err != nil {
		return err
	}
	if done > 0 {
		logutil.GetLogger(ctx).Info("embedding backfill done", zap.Int("embedded", done))
	}
	return nil
}
