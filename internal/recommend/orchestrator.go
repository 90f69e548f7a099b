// Package recommend turns a (job, resume) pair into a stored
// recommendation: a recruiter message plus a few rewritten bullets.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/match"
	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/timeutil"
)

type State string

const (
	StatePending    State = "pending"
	StateGathering  State = "gathering"
	StateGenerating State = "generating"
	StatePersisted  State = "persisted"
	StateAborted    State = "aborted"
)

const (
	MaxBullets          = 3
	defaultCompany      = "the company"
	summaryExperienceLn = 200
)

type Task struct {
	UserID   string `json:"user_id"`
	JobID    string `json:"job_id"`
	ResumeID string `json:"resume_id"`
}

type Result struct {
	State          State
	Reason         string
	Recommendation *model.Recommendation
}

type ResumeStore interface {
	GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error)
}

type JobStore interface {
	GetByID(ctx context.Context, userID, jobID string) (*model.Job, error)
}

type BulletStore interface {
	ListByResume(ctx context.Context, resumeID string, limit int) ([]model.Bullet, error)
}

// SettingsResolver returns the decrypted generation settings of a user.
type SettingsResolver interface {
	Resolve(ctx context.Context, userID string) (ai.Settings, error)
}

type RecommendationStore interface {
	Create(ctx context.Context, rec *model.Recommendation) error
}

type Composer interface {
	TryImproveBullet(ctx context.Context, s ai.Settings, bullet string, requirements []string, jobTitle string) (string, error)
	RecruiterMessage(ctx context.Context, s ai.Settings, in ai.MessageInput) (string, error)
}

type Deps struct {
	Resumes         ResumeStore
	Jobs            JobStore
	Bullets         BulletStore
	Settings        SettingsResolver
	Recommendations RecommendationStore
	Composer        Composer
}

type Orchestrator struct {
	deps Deps
}

func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

type run struct {
	task   Task
	state  State
	logger *zap.Logger
}

func (r *run) enter(state State, fields ...zap.Field) {
	r.logger.Debug("recommendation state changed",
		append([]zap.Field{zap.String("from", string(r.state)), zap.String("to", string(state))}, fields...)...)
	r.state = state
}

func (r *run) abort(reason string, err error) Result {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.enter(StateAborted, fields...)
	return Result{State: StateAborted, Reason: reason}
}

// Handle runs the task and reports only storage failures, which are the
// ones worth redelivering.
func (o *Orchestrator) Handle(ctx context.Context, task Task) error {
	res := o.Run(ctx, task)
	if res.State == StateAborted && strings.HasPrefix(res.Reason, "persist") {
		return fmt.Errorf("recommendation %s/%s: %s", task.JobID, task.ResumeID, res.Reason)
	}
	return nil
}

// Run drives one task through gathering, generating and persisting. It never
// panics on collaborator failures; the terminal state says what happened.
func (o *Orchestrator) Run(ctx context.Context, task Task) Result {
	r := &run{
		task:  task,
		state: StatePending,
		logger: logutil.GetLogger(ctx).With(
			zap.String("job_id", task.JobID),
			zap.String("resume_id", task.ResumeID),
		),
	}

	r.enter(StateGathering)
	resume, err := o.deps.Resumes.GetByID(ctx, task.UserID, task.ResumeID)
	if err != nil {
		return r.abort("resume not found", err)
	}
	job, err := o.deps.Jobs.GetByID(ctx, task.UserID, task.JobID)
	if err != nil {
		return r.abort("job not found", err)
	}
	settings, err := o.deps.Settings.Resolve(ctx, task.UserID)
	if err != nil {
		return r.abort("settings unavailable", err)
	}
	if settings.APIKey == "" {
		return r.abort("no api key configured", nil)
	}
	bullets, err := o.deps.Bullets.ListByResume(ctx, resume.ID, MaxBullets)
	if err != nil {
		r.logger.Warn("load bullets failed, continue without", zap.Error(err))
		bullets = nil
	}
	if len(bullets) > MaxBullets {
		bullets = bullets[:MaxBullets]
	}

	r.enter(StateGenerating, zap.String("provider", settings.Provider), zap.Int("bullets", len(bullets)))
	out := o.generate(ctx, settings, resume, job, bullets)
	if out.messageErr != nil {
		r.logger.Warn("recruiter message failed", zap.Error(out.messageErr))
	}
	if out.message == "" && out.improvedCount == 0 {
		return r.abort("all generation calls failed", nil)
	}

	rec := &model.Recommendation{
		ID:               uuid.NewString(),
		UserID:           task.UserID,
		JobID:            job.ID,
		ResumeID:         resume.ID,
		RecruiterMessage: out.message,
		ImprovedBullets:  out.bullets,
		Ctime:            timeutil.NowUnix(),
	}
	if err := o.deps.Recommendations.Create(ctx, rec); err != nil {
		return r.abort("persist failed", err)
	}
	r.enter(StatePersisted, zap.String("recommendation_id", rec.ID), zap.Int("improved", out.improvedCount))
	return Result{State: StatePersisted, Recommendation: rec}
}

type generation struct {
	message       string
	messageErr    error
	bullets       []model.BulletImprovement
	improvedCount int
}

func (o *Orchestrator) generate(ctx context.Context, s ai.Settings, resume *model.Resume, job *model.Job, bullets []model.Bullet) generation {
	requirements := match.Requirements(job.Description)
	out := generation{bullets: make([]model.BulletImprovement, len(bullets))}
	improved := make([]bool, len(bullets))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		out.message, out.messageErr = o.deps.Composer.RecruiterMessage(ctx, s, ai.MessageInput{
			CandidateSummary: CandidateSummary(resume),
			JobTitle:         job.Title,
			Company:          CompanyOrDefault(job.Company),
		})
	}()
	for i, b := range bullets {
		wg.Add(1)
		go func(i int, original string) {
			defer wg.Done()
			text, err := o.deps.Composer.TryImproveBullet(ctx, s, original, requirements, job.Title)
			if err != nil {
				logutil.GetLogger(ctx).Warn("improve bullet failed, keep original",
					zap.Int("position", i), zap.Error(err))
				out.bullets[i] = model.BulletImprovement{Original: original, Improved: original}
				return
			}
			out.bullets[i] = model.BulletImprovement{Original: original, Improved: text}
			improved[i] = true
		}(i, b.Text)
	}
	wg.Wait()

	for _, ok := range improved {
		if ok {
			out.improvedCount++
		}
	}
	return out
}

// CandidateSummary condenses a resume for the message prompts.
func CandidateSummary(resume *model.Resume) string {
	experience := resume.Sections[model.SectionExperience]
	if experience == "" {
		experience = "various roles"
	}
	summary := "Professional with experience in " + experience
	if runes := []rune(summary); len(runes) > summaryExperienceLn {
		summary = string(runes[:summaryExperienceLn])
	}
	if resume.ExperienceCount > 0 {
		summary += fmt.Sprintf(" (%d positions)", resume.ExperienceCount)
	}
	return summary
}

func CompanyOrDefault(company string) string {
	if strings.TrimSpace(company) == "" {
		return defaultCompany
	}
	return company
}
