package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

func TestBulletsToImprove(t *testing.T) {
	tests := []struct{ n, pct, want int }{
		{0, 50, 0},
		{1, 0, 1},
		{4, 50, 2},
		{5, 50, 2},
		{3, 10, 1},
		{3, 100, 3},
		{20, 75, 15},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BulletsToImprove(tt.n, tt.pct), "n=%d pct=%d", tt.n, tt.pct)
	}
}

func improveFixture() (*memResumes, *memJobs) {
	resumes := newMemResumes()
	resumes.items["r1"] = &model.Resume{ID: "r1", UserID: "u1"}
	resumes.bullets["r1"] = []string{"first bullet", "second bullet", "third bullet", "fourth bullet"}
	jobs := newMemJobs()
	jobs.items["j1"] = &model.Job{ID: "j1", UserID: "u1", Title: "Engineer", Description: "python and docker"}
	return resumes, jobs
}

func TestImproveLeadingBullets(t *testing.T) {
	resumes, jobs := improveFixture()
	composer := &fakeComposer{newBullet: "Shipped python services in docker"}
	svc := NewImproveService(resumes, jobs, resumes, configured, composer)

	res, err := svc.Improve(context.Background(), "u1", "r1", "j1", 50)
	require.NoError(t, err)
	require.Equal(t, []model.BulletImprovement{
		{Original: "first bullet", Improved: "better: first bullet"},
		{Original: "second bullet", Improved: "better: second bullet"},
	}, res.Improvements)
	require.Empty(t, res.NewBullets)

	res, err = svc.Improve(context.Background(), "u1", "r1", "j1", 75)
	require.NoError(t, err)
	require.Len(t, res.Improvements, 3)
	require.Equal(t, []string{"Shipped python services in docker"}, res.NewBullets)
}

func TestImproveNewBulletFailureIsSwallowed(t *testing.T) {
	resumes, jobs := improveFixture()
	svc := NewImproveService(resumes, jobs, resumes, configured, &fakeComposer{newErr: errors.New("down")})
	res, err := svc.Improve(context.Background(), "u1", "r1", "j1", 100)
	require.NoError(t, err)
	require.Len(t, res.Improvements, 4)
	require.Empty(t, res.NewBullets)
}

func TestImproveRejects(t *testing.T) {
	resumes, jobs := improveFixture()
	svc := NewImproveService(resumes, jobs, resumes, configured, &fakeComposer{})
	_, err := svc.Improve(context.Background(), "u1", "r1", "j1", 101)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	resumes.bullets["r1"] = nil
	_, err = svc.Improve(context.Background(), "u1", "r1", "j1", 50)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Improve(context.Background(), "u1", "r1", "missing", 50)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
