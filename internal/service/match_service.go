package service

import (
	"context"

	"github.com/xxxsen/nextstep/internal/match"
	"github.com/xxxsen/nextstep/internal/model"
)

type VectorReader interface {
	Full(ctx context.Context, kind model.OwnerKind, ownerID string) ([]float32, error)
}

type MatchService struct {
	resumes ResumeGetter
	jobs    JobGetter
	vectors VectorReader
}

type JobGetter interface {
	GetByID(ctx context.Context, userID, jobID string) (*model.Job, error)
}

func NewMatchService(resumes ResumeGetter, jobs JobGetter, vectors VectorReader) *MatchService {
	return &MatchService{resumes: resumes, jobs: jobs, vectors: vectors}
}

// Match scores a stored resume against a stored job. Missing vectors give a
// zero semantic component rather than an error.
func (s *MatchService) Match(ctx context.Context, userID, resumeID, jobID string) (*model.MatchResult, error) {
	resume, err := s.resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	resumeVec, err := s.vectors.Full(ctx, model.OwnerResume, resume.ID)
	if err != nil {
		return nil, err
	}
	jobVec, err := s.vectors.Full(ctx, model.OwnerJob, job.ID)
	if err != nil {
		return nil, err
	}
	result := match.Score(resume.Text, resumeVec, job.Description, jobVec)
	return &result, nil
}
