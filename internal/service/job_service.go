package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/pkg/timeutil"
	"github.com/xxxsen/nextstep/internal/recommend"
)

type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, userID, jobID string) (*model.Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error)
}

type ResumeGetter interface {
	GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error)
}

type OwnerEmbedder interface {
	Embed(ctx context.Context, kind model.OwnerKind, ownerID, section, text string) error
}

// TaskQueue accepts recommendation work for the background workers.
type TaskQueue interface {
	Enqueue(ctx context.Context, task recommend.Task) error
}

type JobInput struct {
	Title       string `json:"job_title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	ResumeID    string `json:"resume_id"`
}

type JobService struct {
	jobs     JobStore
	resumes  ResumeGetter
	embedder OwnerEmbedder
	queue    TaskQueue
}

func NewJobService(jobs JobStore, resumes ResumeGetter, embedder OwnerEmbedder, queue TaskQueue) *JobService {
	return &JobService{jobs: jobs, resumes: resumes, embedder: embedder, queue: queue}
}

// Create stores the job, embeds its description and, when a resume is
// named, queues a recommendation run for the pair.
func (s *JobService) Create(ctx context.Context, userID string, in JobInput) (*model.Job, bool, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, false, fmt.Errorf("%w: job_title and description are required", appErr.ErrInvalid)
	}
	if in.ResumeID != "" {
		if _, err := s.resumes.GetByID(ctx, userID, in.ResumeID); err != nil {
			return nil, false, err
		}
	}
	job := &model.Job{
		ID:          newID(),
		UserID:      userID,
		Title:       in.Title,
		Company:     strings.TrimSpace(in.Company),
		Description: in.Description,
		ResumeID:    in.ResumeID,
		Ctime:       timeutil.NowUnix(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, false, err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("job_id", job.ID))
	if s.embedder != nil {
		if err := s.embedder.Embed(ctx, model.OwnerJob, job.ID, model.EmbeddingSectionFull, job.Description); err != nil {
			logger.Warn("embed job failed, continue without vector", zap.Error(err))
		}
	}
	queued := false
	if job.ResumeID != "" && s.queue != nil {
		task := recommend.Task{UserID: userID, JobID: job.ID, ResumeID: job.ResumeID}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			logger.Warn("queue recommendation failed", zap.Error(err))
		} else {
			queued = true
		}
	}
	return job, queued, nil
}

func (s *JobService) Get(ctx context.Context, userID, jobID string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, userID, jobID)
}

func (s *JobService) List(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error) {
	return s.jobs.ListByUser(ctx, userID, limit, offset)
}
