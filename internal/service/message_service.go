package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/recommend"
)

type SettingsResolver interface {
	ResolveConfigured(ctx context.Context, userID string) (ai.Settings, error)
}

type MessageComposer interface {
	RecruiterMessage(ctx context.Context, s ai.Settings, in ai.MessageInput) (string, error)
	ReferralMessage(ctx context.Context, s ai.Settings, in ai.ReferralInput) (string, error)
}

type RecruiterRequest struct {
	ResumeID       string `json:"resume_id"`
	JobID          string `json:"job_id"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
}

type ReferralRequest struct {
	ResumeID    string `json:"resume_id"`
	JobID       string `json:"job_id"`
	ContactName string `json:"contact_name"`
	ContactRole string `json:"contact_role"`
	Connection  string `json:"connection"`
}

type MessageResult struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

type MessageService struct {
	resumes  ResumeGetter
	jobs     JobGetter
	settings SettingsResolver
	composer MessageComposer
	mailer   EmailSender
}

// NewMessageService builds the service; a nil mailer disables delivery.
func NewMessageService(resumes ResumeGetter, jobs JobGetter, settings SettingsResolver, composer MessageComposer, mailer EmailSender) *MessageService {
	return &MessageService{resumes: resumes, jobs: jobs, settings: settings, composer: composer, mailer: mailer}
}

func (s *MessageService) load(ctx context.Context, userID, resumeID, jobID string) (*model.Resume, *model.Job, ai.Settings, error) {
	resume, err := s.resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		return nil, nil, ai.Settings{}, err
	}
	job, err := s.jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, nil, ai.Settings{}, err
	}
	settings, err := s.settings.ResolveConfigured(ctx, userID)
	if err != nil {
		return nil, nil, ai.Settings{}, err
	}
	return resume, job, settings, nil
}

// Recruiter drafts a recruiter message and optionally mails it. A failed
// delivery only clears EmailSent.
func (s *MessageService) Recruiter(ctx context.Context, userID string, req RecruiterRequest) (*MessageResult, error) {
	resume, job, settings, err := s.load(ctx, userID, req.ResumeID, req.JobID)
	if err != nil {
		return nil, err
	}
	message, err := s.composer.RecruiterMessage(ctx, settings, ai.MessageInput{
		CandidateSummary: recommend.CandidateSummary(resume),
		JobTitle:         job.Title,
		Company:          recommend.CompanyOrDefault(job.Company),
		RecipientName:    req.RecipientName,
	})
	if err != nil {
		return nil, err
	}
	result := &MessageResult{Message: message}
	to := strings.TrimSpace(req.RecipientEmail)
	if to == "" || s.mailer == nil {
		return result, nil
	}
	company := job.Company
	if company == "" {
		company = "your company"
	}
	subject := fmt.Sprintf("Application for %s at %s", job.Title, company)
	if err := s.mailer.Send(to, subject, message); err != nil {
		logutil.GetLogger(ctx).Warn("send recruiter email failed", zap.String("job_id", job.ID), zap.Error(err))
		return result, nil
	}
	result.EmailSent = true
	return result, nil
}

func (s *MessageService) Referral(ctx context.Context, userID string, req ReferralRequest) (*MessageResult, error) {
	if strings.TrimSpace(req.ContactName) == "" {
		return nil, fmt.Errorf("%w: contact_name is required", appErr.ErrInvalid)
	}
	resume, job, settings, err := s.load(ctx, userID, req.ResumeID, req.JobID)
	if err != nil {
		return nil, err
	}
	message, err := s.composer.ReferralMessage(ctx, settings, ai.ReferralInput{
		CandidateSummary: recommend.CandidateSummary(resume),
		JobTitle:         job.Title,
		Company:          recommend.CompanyOrDefault(job.Company),
		ContactName:      req.ContactName,
		ContactRole:      req.ContactRole,
		Connection:       req.Connection,
	})
	if err != nil {
		return nil, err
	}
	return &MessageResult{Message: message}, nil
}
