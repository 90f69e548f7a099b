package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/filestore"
	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/parser"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/pkg/timeutil"
)

type ResumeStore interface {
	Create(ctx context.Context, resume *model.Resume, bullets []string) error
	GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error)
}

type ResumeEmbedder interface {
	EmbedResume(ctx context.Context, resumeID, text string, bullets []string)
}

type ResumeService struct {
	resumes  ResumeStore
	files    filestore.Store
	embedder ResumeEmbedder
	maxBytes int64
	parse    func(data []byte, filename string) (*model.ParsedDocument, error)
}

func NewResumeService(resumes ResumeStore, files filestore.Store, embedder ResumeEmbedder, maxBytes int64) *ResumeService {
	return &ResumeService{resumes: resumes, files: files, embedder: embedder, maxBytes: maxBytes, parse: parser.Parse}
}

func (s *ResumeService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload parses and stores one resume file. A blob store failure is not
// fatal: the record keeps the intended key. Embedding failures only leave
// the resume without vectors for the backfill job to pick up.
func (s *ResumeService) Upload(ctx context.Context, userID, filename string, data []byte) (*model.Resume, error) {
	filename = path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("%w: no file provided", appErr.ErrInvalid)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, appErr.ErrTooLarge
	}
	doc, err := s.parse(data, filename)
	if err != nil {
		return nil, err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID), zap.String("filename", filename))

	id := newID()
	key := fmt.Sprintf("%s/%s_%s", userID, newID(), filename)
	if s.files != nil {
		if err := s.files.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
			logger.Warn("store resume file failed, keep record", zap.String("key", key), zap.Error(err))
		}
	}

	now := timeutil.NowUnix()
	resume := &model.Resume{
		ID:              id,
		UserID:          userID,
		Filename:        filename,
		FileKey:         key,
		FileSize:        int64(len(data)),
		Name:            doc.Name,
		Email:           doc.Email,
		Phone:           doc.Phone,
		Text:            doc.Text,
		Sections:        doc.Sections,
		EducationCount:  doc.EducationCount,
		ExperienceCount: doc.ExperienceCount,
		Ctime:           now,
		Mtime:           now,
	}
	if err := s.resumes.Create(ctx, resume, doc.Bullets); err != nil {
		return nil, err
	}
	if s.embedder != nil {
		s.embedder.EmbedResume(ctx, resume.ID, resume.Text, doc.Bullets)
	}
	logger.Info("resume stored", zap.String("resume_id", resume.ID), zap.Int("bullets", len(doc.Bullets)))
	return resume, nil
}

func (s *ResumeService) Get(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	return s.resumes.GetByID(ctx, userID, resumeID)
}

func (s *ResumeService) List(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error) {
	return s.resumes.ListByUser(ctx, userID, limit, offset)
}

// Open streams the originally uploaded file. Resumes whose blob was never
// stored report not found.
func (s *ResumeService) Open(ctx context.Context, userID, resumeID string) (*model.Resume, io.ReadCloser, error) {
	resume, err := s.resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		return nil, nil, err
	}
	if s.files == nil || resume.FileKey == "" {
		return nil, nil, appErr.ErrNotFound
	}
	rc, err := s.files.Open(ctx, resume.FileKey)
	if err != nil {
		logutil.GetLogger(ctx).Warn("open resume file failed", zap.String("resume_id", resume.ID), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: resume file unavailable", appErr.ErrNotFound)
	}
	return resume, rc, nil
}
