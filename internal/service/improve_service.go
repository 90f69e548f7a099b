package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/match"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

const (
	DefaultAIContentPercentage = 50
	newBulletThreshold         = 50
)

type BulletLister interface {
	ListByResume(ctx context.Context, resumeID string, limit int) ([]model.Bullet, error)
}

type BulletComposer interface {
	ImproveBullet(ctx context.Context, s ai.Settings, bullet string, requirements []string, jobTitle string) string
	NewBullet(ctx context.Context, s ai.Settings, requirements []string) (string, error)
}

type ImproveResult struct {
	ResumeID     string                    `json:"resume_id"`
	Improvements []model.BulletImprovement `json:"improvements"`
	NewBullets   []string                  `json:"new_bullets"`
}

type ImproveService struct {
	resumes  ResumeGetter
	jobs     JobGetter
	bullets  BulletLister
	settings SettingsResolver
	composer BulletComposer
}

func NewImproveService(resumes ResumeGetter, jobs JobGetter, bullets BulletLister, settings SettingsResolver, composer BulletComposer) *ImproveService {
	return &ImproveService{resumes: resumes, jobs: jobs, bullets: bullets, settings: settings, composer: composer}
}

// BulletsToImprove is max(1, floor(n*pct/100)), capped at n.
func BulletsToImprove(n, pct int) int {
	if n <= 0 {
		return 0
	}
	k := n * pct / 100
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Improve rewrites the leading bullets against the job. Each bullet falls
// back to its original text on failure. Above the threshold percentage one
// extra bullet is drafted, best effort.
func (s *ImproveService) Improve(ctx context.Context, userID, resumeID, jobID string, pct int) (*ImproveResult, error) {
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: ai_content_percentage must be within 0..100", appErr.ErrInvalid)
	}
	resume, err := s.resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	bullets, err := s.bullets.ListByResume(ctx, resume.ID, 0)
	if err != nil {
		return nil, err
	}
	if len(bullets) == 0 {
		return nil, fmt.Errorf("%w: no experience bullets found in resume", appErr.ErrInvalid)
	}
	settings, err := s.settings.ResolveConfigured(ctx, userID)
	if err != nil {
		return nil, err
	}

	requirements := match.Requirements(job.Description)
	n := BulletsToImprove(len(bullets), pct)
	result := &ImproveResult{
		ResumeID:     resume.ID,
		Improvements: make([]model.BulletImprovement, 0, n),
		NewBullets:   []string{},
	}
	for _, b := range bullets[:n] {
		result.Improvements = append(result.Improvements, model.BulletImprovement{
			Original: b.Text,
			Improved: s.composer.ImproveBullet(ctx, settings, b.Text, requirements, job.Title),
		})
	}
	if pct > newBulletThreshold && len(requirements) > 0 {
		extra, err := s.composer.NewBullet(ctx, settings, requirements)
		if err != nil {
			logutil.GetLogger(ctx).Warn("draft new bullet failed", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			result.NewBullets = append(result.NewBullets, extra)
		}
	}
	return result, nil
}
