package service

import (
	"context"

	"github.com/xxxsen/nextstep/internal/model"
)

const (
	maxRecommendations     = 50
	historyRecommendations = 10
	historyEntries         = 100
)

type RecommendationLister interface {
	List(ctx context.Context, userID, jobID, resumeID string, limit uint) ([]model.Recommendation, error)
}

type ResumeLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error)
}

type JobLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error)
}

type History struct {
	Resumes         []model.Resume         `json:"resumes"`
	Jobs            []model.Job            `json:"jobs"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

type RecommendationService struct {
	recs    RecommendationLister
	resumes ResumeLister
	jobs    JobLister
}

func NewRecommendationService(recs RecommendationLister, resumes ResumeLister, jobs JobLister) *RecommendationService {
	return &RecommendationService{recs: recs, resumes: resumes, jobs: jobs}
}

func (s *RecommendationService) List(ctx context.Context, userID, jobID, resumeID string) ([]model.Recommendation, error) {
	items, err := s.recs.List(ctx, userID, jobID, resumeID, maxRecommendations)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Recommendation{}
	}
	return items, nil
}

// History is the dashboard view: uploads, jobs and the latest recommendations.
func (s *RecommendationService) History(ctx context.Context, userID string) (*History, error) {
	resumes, err := s.resumes.ListByUser(ctx, userID, historyEntries, 0)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByUser(ctx, userID, historyEntries, 0)
	if err != nil {
		return nil, err
	}
	recs, err := s.recs.List(ctx, userID, "", "", historyRecommendations)
	if err != nil {
		return nil, err
	}
	h := &History{Resumes: resumes, Jobs: jobs, Recommendations: recs}
	if h.Resumes == nil {
		h.Resumes = []model.Resume{}
	}
	if h.Jobs == nil {
		h.Jobs = []model.Job{}
	}
	if h.Recommendations == nil {
		h.Recommendations = []model.Recommendation{}
	}
	return h, nil
}
