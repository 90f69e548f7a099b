package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

type fakeResumes map[string]*model.Resume

func (f fakeResumes) GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	r, ok := f[resumeID]
	if !ok || r.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	return r, nil
}

type fakeJobs map[string]*model.Job

func (f fakeJobs) GetByID(ctx context.Context, userID, jobID string) (*model.Job, error) {
	j, ok := f[jobID]
	if !ok || j.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	return j, nil
}

type fakeBullets []model.Bullet

func (f fakeBullets) ListByResume(ctx context.Context, resumeID string, limit int) ([]model.Bullet, error) {
	if limit > 0 && len(f) > limit {
		return f[:limit], nil
	}
	return f, nil
}

type fakeSettings struct {
	settings ai.Settings
	err      error
}

func (f fakeSettings) Resolve(ctx context.Context, userID string) (ai.Settings, error) {
	return f.settings, f.err
}

type fakeRecs struct {
	mu    sync.Mutex
	saved []*model.Recommendation
	err   error
}

func (f *fakeRecs) Create(ctx context.Context, rec *model.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

type fakeComposer struct {
	mu         sync.Mutex
	message    string
	messageErr error
	// bulletErr fails every bullet whose text contains the key.
	bulletErr map[string]error
	calls     int
}

func (f *fakeComposer) TryImproveBullet(ctx context.Context, s ai.Settings, bullet string, requirements []string, jobTitle string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for key, err := range f.bulletErr {
		if strings.Contains(bullet, key) {
			return "", err
		}
	}
	return "Improved " + bullet, nil
}

func (f *fakeComposer) RecruiterMessage(ctx context.Context, s ai.Settings, in ai.MessageInput) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.messageErr != nil {
		return "", f.messageErr
	}
	return f.message + " " + in.Company, nil
}

type fixture struct {
	deps     Deps
	recs     *fakeRecs
	composer *fakeComposer
}

func newFixture() *fixture {
	recs := &fakeRecs{}
	composer := &fakeComposer{message: "Hello,"}
	return &fixture{
		recs:     recs,
		composer: composer,
		deps: Deps{
			Resumes: fakeResumes{"r1": {ID: "r1", UserID: "u1", ExperienceCount: 2,
				Sections: map[model.SectionName]string{model.SectionExperience: "Backend work"}}},
			Jobs: fakeJobs{"j1": {ID: "j1", UserID: "u1", Title: "Engineer", Description: "python and aws"}},
			Bullets: fakeBullets{
				{ResumeID: "r1", Position: 0, Text: "first bullet text"},
				{ResumeID: "r1", Position: 1, Text: "second bullet text"},
				{ResumeID: "r1", Position: 2, Text: "third bullet text"},
				{ResumeID: "r1", Position: 3, Text: "fourth bullet text"},
			},
			Settings:        fakeSettings{settings: ai.Settings{Provider: "groq", APIKey: "secret"}},
			Recommendations: recs,
			Composer:        composer,
		},
	}
}

var task = Task{UserID: "u1", JobID: "j1", ResumeID: "r1"}

func TestRunPersistsMessageAndBullets(t *testing.T) {
	f := newFixture()
	res := NewOrchestrator(f.deps).Run(context.Background(), task)

	require.Equal(t, StatePersisted, res.State)
	require.Len(t, f.recs.saved, 1)
	rec := f.recs.saved[0]
	require.Equal(t, "Hello, the company", rec.RecruiterMessage)
	require.Equal(t, []model.BulletImprovement{
		{Original: "first bullet text", Improved: "Improved first bullet text"},
		{Original: "second bullet text", Improved: "Improved second bullet text"},
		{Original: "third bullet text", Improved: "Improved third bullet text"},
	}, rec.ImprovedBullets)
	require.Equal(t, "j1", rec.JobID)
	require.Equal(t, "r1", rec.ResumeID)
	require.NotEmpty(t, rec.ID)
	require.Equal(t, 4, f.composer.calls)
}

func TestRunFailedBulletKeepsOriginalPair(t *testing.T) {
	f := newFixture()
	f.composer.bulletErr = map[string]error{"second": &ai.ProviderError{Kind: ai.KindRateLimit}}
	res := NewOrchestrator(f.deps).Run(context.Background(), task)

	require.Equal(t, StatePersisted, res.State)
	require.Equal(t, model.BulletImprovement{Original: "second bullet text", Improved: "second bullet text"},
		res.Recommendation.ImprovedBullets[1])
	require.Equal(t, "Improved first bullet text", res.Recommendation.ImprovedBullets[0].Improved)
}

func TestRunPersistsWhenOnlyBulletsSucceed(t *testing.T) {
	f := newFixture()
	f.composer.messageErr = ai.ErrMessageGenerationFailed
	f.composer.bulletErr = map[string]error{"first": errors.New("x"), "third": errors.New("x")}
	res := NewOrchestrator(f.deps).Run(context.Background(), task)

	require.Equal(t, StatePersisted, res.State)
	require.Empty(t, res.Recommendation.RecruiterMessage)
	require.Len(t, res.Recommendation.ImprovedBullets, 3)
}

func TestRunPersistsWhenOnlyMessageSucceeds(t *testing.T) {
	f := newFixture()
	f.composer.bulletErr = map[string]error{"bullet": errors.New("down")}
	res := NewOrchestrator(f.deps).Run(context.Background(), task)

	require.Equal(t, StatePersisted, res.State)
	for _, b := range res.Recommendation.ImprovedBullets {
		require.Equal(t, b.Original, b.Improved)
	}
}

func TestRunWritesNothingWhenEverythingFails(t *testing.T) {
	f := newFixture()
	f.composer.messageErr = ai.ErrMessageGenerationFailed
	f.composer.bulletErr = map[string]error{"bullet": errors.New("down")}
	res := NewOrchestrator(f.deps).Run(context.Background(), task)

	require.Equal(t, StateAborted, res.State)
	require.Empty(t, f.recs.saved)
}

func TestRunAbortsOnMissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fixture)
		reason string
	}{
		{"missing resume", func(f *fixture) { f.deps.Resumes = fakeResumes{} }, "resume not found"},
		{"missing job", func(f *fixture) { f.deps.Jobs = fakeJobs{} }, "job not found"},
		{"no key", func(f *fixture) { f.deps.Settings = fakeSettings{settings: ai.Settings{Provider: "openai"}} }, "no api key configured"},
		{"settings error", func(f *fixture) { f.deps.Settings = fakeSettings{err: errors.New("boom")} }, "settings unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.mutate(f)
			res := NewOrchestrator(f.deps).Run(context.Background(), task)
			require.Equal(t, StateAborted, res.State)
			require.Equal(t, tt.reason, res.Reason)
			require.Empty(t, f.recs.saved)
			require.Zero(t, f.composer.calls)
		})
	}
}

func TestRunWithoutBullets(t *testing.T) {
	f := newFixture()
	f.deps.Bullets = fakeBullets{}
	res := NewOrchestrator(f.deps).Run(context.Background(), task)
	require.Equal(t, StatePersisted, res.State)
	require.Empty(t, res.Recommendation.ImprovedBullets)
}

func TestHandleReportsPersistFailure(t *testing.T) {
	f := newFixture()
	f.recs.err = errors.New("db down")
	o := NewOrchestrator(f.deps)
	require.Error(t, o.Handle(context.Background(), task))

	f = newFixture()
	f.deps.Jobs = fakeJobs{}
	require.NoError(t, NewOrchestrator(f.deps).Handle(context.Background(), task))
}

func TestCandidateSummary(t *testing.T) {
	r := &model.Resume{ExperienceCount: 3, Sections: map[model.SectionName]string{model.SectionExperience: "Built APIs"}}
	require.Equal(t, "Professional with experience in Built APIs (3 positions)", CandidateSummary(r))

	require.Equal(t, "Professional with experience in various roles", CandidateSummary(&model.Resume{}))

	long := &model.Resume{Sections: map[model.SectionName]string{model.SectionExperience: strings.Repeat("a", 500)}}
	require.Len(t, CandidateSummary(long), summaryExperienceLn)
}

func TestCompanyOrDefault(t *testing.T) {
	require.Equal(t, "the company", CompanyOrDefault("  "))
	require.Equal(t, "Acme", CompanyOrDefault("Acme"))
}
