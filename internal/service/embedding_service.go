package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/embedding"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/pkg/timeutil"
)

type Encoder interface {
	EncodeOne(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type VectorStore interface {
	Upsert(ctx context.Context, emb *model.EmbeddingVector) error
	Get(ctx context.Context, kind model.OwnerKind, ownerID, section string) (*model.EmbeddingVector, error)
}

// MissingLister lists owners without a full-text vector.
type MissingLister interface {
	ListWithoutEmbedding(ctx context.Context, limit int) ([]model.EmbeddingOwner, error)
}

type EmbeddingService struct {
	encoder Encoder
	vectors VectorStore
	missing []MissingLister
}

func NewEmbeddingService(encoder Encoder, vectors VectorStore, missing ...MissingLister) *EmbeddingService {
	return &EmbeddingService{encoder: encoder, vectors: vectors, missing: missing}
}

// Embed encodes text (truncated to the input cap) and stores it under the
// given owner section.
func (s *EmbeddingService) Embed(ctx context.Context, kind model.OwnerKind, ownerID, section, text string) error {
	values, err := s.encoder.EncodeOne(ctx, embedding.TruncateInput(text))
	if err != nil {
		return err
	}
	return s.vectors.Upsert(ctx, &model.EmbeddingVector{
		OwnerKind: kind,
		OwnerID:   ownerID,
		Section:   section,
		Values:    values,
		ModelName: s.encoder.ModelName(),
		Mtime:     timeutil.NowUnix(),
	})
}

// EmbedResume stores the full-text vector and one vector per bullet. Every
// failure is logged and skipped; the resume stays usable without vectors.
func (s *EmbeddingService) EmbedResume(ctx context.Context, resumeID, text string, bullets []string) {
	logger := logutil.GetLogger(ctx).With(zap.String("resume_id", resumeID))
	for i, bullet := range bullets {
		if err := s.Embed(ctx, model.OwnerResume, resumeID, model.EmbeddingBulletPrefix+strconv.Itoa(i), bullet); err != nil {
			logger.Warn("embed bullet failed", zap.Int("position", i), zap.Error(err))
			if errors.Is(err, embedding.ErrModelUnavailable) {
				break
			}
		}
	}
	if text == "" {
		return
	}
	if err := s.Embed(ctx, model.OwnerResume, resumeID, model.EmbeddingSectionFull, text); err != nil {
		logger.Warn("embed resume failed, continue without vector", zap.Error(err))
	}
}

// Full returns the owner's full-text vector, or nil when none is stored.
func (s *EmbeddingService) Full(ctx context.Context, kind model.OwnerKind, ownerID string) ([]float32, error) {
	emb, err := s.vectors.Get(ctx, kind, ownerID, model.EmbeddingSectionFull)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return emb.Values, nil
}

// Backfill embeds up to limit owners per lister that still lack a full vector.
func (s *EmbeddingService) Backfill(ctx context.Context, limit int) (int, error) {
	logger := logutil.GetLogger(ctx)
	done := 0
	for _, lister := range s.missing {
		owners, err := lister.ListWithoutEmbedding(ctx, limit)
		if err != nil {
			return done, fmt.Errorf("list missing embeddings: %w", err)
		}
		for _, owner := range owners {
			if err := s.Embed(ctx, owner.OwnerKind, owner.OwnerID, model.EmbeddingSectionFull, owner.Text); err != nil {
				if errors.Is(err, embedding.ErrModelUnavailable) {
					return done, err
				}
				logger.Warn("backfill embedding failed",
					zap.String("owner_kind", string(owner.OwnerKind)), zap.String("owner_id", owner.OwnerID), zap.Error(err))
				continue
			}
			done++
		}
	}
	return done, nil
}
