package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/recommend"
)

type memUsers struct {
	byEmail map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*model.User{}} }

func (m *memUsers) Create(ctx context.Context, u *model.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return appErr.ErrConflict
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return u, nil
}

type memSettings struct {
	items map[string]*model.UserSettings
}

func newMemSettings() *memSettings { return &memSettings{items: map[string]*model.UserSettings{}} }

func (m *memSettings) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	s, ok := m.items[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSettings) Upsert(ctx context.Context, s *model.UserSettings) error {
	cp := *s
	m.items[s.UserID] = &cp
	return nil
}

type memResumes struct {
	items   map[string]*model.Resume
	bullets map[string][]string
	err     error
}

func newMemResumes() *memResumes {
	return &memResumes{items: map[string]*model.Resume{}, bullets: map[string][]string{}}
}

func (m *memResumes) Create(ctx context.Context, r *model.Resume, bullets []string) error {
	if m.err != nil {
		return m.err
	}
	m.items[r.ID] = r
	m.bullets[r.ID] = bullets
	return nil
}

func (m *memResumes) GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	r, ok := m.items[resumeID]
	if !ok || r.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	return r, nil
}

func (m *memResumes) ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error) {
	var out []model.Resume
	for _, r := range m.items {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memResumes) ListByResume(ctx context.Context, resumeID string, limit int) ([]model.Bullet, error) {
	var out []model.Bullet
	for i, text := range m.bullets[resumeID] {
		if limit > 0 && i >= limit {
			break
		}
		out = append(out, model.Bullet{ResumeID: resumeID, Position: i, Text: text})
	}
	return out, nil
}

type memJobs struct {
	items map[string]*model.Job
}

func newMemJobs() *memJobs { return &memJobs{items: map[string]*model.Job{}} }

func (m *memJobs) Create(ctx context.Context, j *model.Job) error {
	m.items[j.ID] = j
	return nil
}

func (m *memJobs) GetByID(ctx context.Context, userID, jobID string) (*model.Job, error) {
	j, ok := m.items[jobID]
	if !ok || j.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	return j, nil
}

func (m *memJobs) ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error) {
	return nil, nil
}

type memFiles struct {
	saved map[string][]byte
	err   error
}

func (m *memFiles) Type() string { return "mem" }

func (m *memFiles) Save(ctx context.Context, key string, r io.Reader, size int64) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[key] = data
	return nil
}

func (m *memFiles) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not supported")
}

type memVectors struct {
	mu    sync.Mutex
	items map[string]*model.EmbeddingVector
}

func newMemVectors() *memVectors { return &memVectors{items: map[string]*model.EmbeddingVector{}} }

func vectorKey(kind model.OwnerKind, id, section string) string {
	return string(kind) + "/" + id + "/" + section
}

func (m *memVectors) Upsert(ctx context.Context, emb *model.EmbeddingVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[vectorKey(emb.OwnerKind, emb.OwnerID, emb.Section)] = emb
	return nil
}

func (m *memVectors) Get(ctx context.Context, kind model.OwnerKind, ownerID, section string) (*model.EmbeddingVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	emb, ok := m.items[vectorKey(kind, ownerID, section)]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return emb, nil
}

type fakeEncoder struct {
	err   error
	calls int
	// vectors maps exact input text to its vector; other input gets unit x.
	vectors map[string][]float32
}

func (f *fakeEncoder) EncodeOne(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEncoder) ModelName() string { return "fake-model" }

type fakeQueue struct {
	tasks []recommend.Task
	err   error
}

func (f *fakeQueue) Enqueue(ctx context.Context, task recommend.Task) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeComposer struct {
	message    string
	err        error
	newBullet  string
	newErr     error
	improveLog []string
}

func (f *fakeComposer) RecruiterMessage(ctx context.Context, s ai.Settings, in ai.MessageInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.message + " " + in.Company, nil
}

func (f *fakeComposer) ReferralMessage(ctx context.Context, s ai.Settings, in ai.ReferralInput) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Hi " + in.ContactName, nil
}

func (f *fakeComposer) ImproveBullet(ctx context.Context, s ai.Settings, bullet string, requirements []string, jobTitle string) string {
	f.improveLog = append(f.improveLog, bullet)
	return "better: " + bullet
}

func (f *fakeComposer) NewBullet(ctx context.Context, s ai.Settings, requirements []string) (string, error) {
	return f.newBullet, f.newErr
}

type fakeResolver struct {
	settings ai.Settings
	err      error
}

func (f fakeResolver) ResolveConfigured(ctx context.Context, userID string) (ai.Settings, error) {
	return f.settings, f.err
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}
