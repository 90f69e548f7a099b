package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

func TestMatchUsesStoredVectors(t *testing.T) {
	resumes := newMemResumes()
	resumes.items["r1"] = &model.Resume{ID: "r1", UserID: "u1", Text: "python react developer"}
	jobs := newMemJobs()
	jobs.items["j1"] = &model.Job{ID: "j1", UserID: "u1", Description: "python react aws"}
	vectors := newMemVectors()
	emb := NewEmbeddingService(&fakeEncoder{}, vectors)
	svc := NewMatchService(resumes, jobs, emb)

	// no vectors yet: semantic is zero
	res, err := svc.Match(context.Background(), "u1", "r1", "j1")
	require.NoError(t, err)
	require.Equal(t, 0.0, res.SemanticScore)
	require.Equal(t, 66.7, res.SkillsMatch)
	require.Equal(t, []string{"aws"}, res.MissingSkills)

	require.NoError(t, emb.Embed(context.Background(), model.OwnerResume, "r1", model.EmbeddingSectionFull, "x"))
	require.NoError(t, emb.Embed(context.Background(), model.OwnerJob, "j1", model.EmbeddingSectionFull, "y"))
	res, err = svc.Match(context.Background(), "u1", "r1", "j1")
	require.NoError(t, err)
	require.Equal(t, 100.0, res.SemanticScore)
	require.Equal(t, 90.0, res.OverallScore)
}

func TestMatchNotFound(t *testing.T) {
	svc := NewMatchService(newMemResumes(), newMemJobs(), NewEmbeddingService(&fakeEncoder{}, newMemVectors()))
	_, err := svc.Match(context.Background(), "u1", "r1", "j1")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
