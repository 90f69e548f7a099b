package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	bulletMaxTokens    = 200
	messageMaxTokens   = 300
	referralMaxTokens  = 400
	newBulletMaxTokens = 100

	maxPromptRequirements = 5
)

const improveBulletSystemPrompt = `You are an expert resume writer and career coach. You rewrite resume bullet points to highlight accomplishments using the Result-Impact-Context (RIC) format, similar to STAR method.

Guidelines:
- Start with a concrete, quantified result or achievement
- Follow with how you achieved it (impact and method)
- Provide context (team size, scope, tools used)
- Use action verbs and be specific
- Do NOT invent any accomplishments or skills not supported by the candidate's experience
- Keep it professional and confident, not overly generic
- Avoid phrases that sound AI-generated
- Keep it concise (ideally one line, max two lines)
- Write in third person implied (no "I" pronouns, as resumes typically omit them)`

const recruiterSystemPrompt = `You are an assistant that drafts brief LinkedIn messages to recruiters. The message should be:
- Polite, professional, and show genuine interest
- Brief (3-4 sentences)
- Human and authentic (NOT like it was written by AI)
- Avoid excessive praise or buzzwords
- Mention the specific job and why the candidate is a good fit`

const referralSystemPrompt = `You are an assistant that drafts LinkedIn messages asking for referrals. The message should be:
- Polite and appreciative of their time
- Not too formal, but professional
- Mention any commonalities or connections if provided
- Brief (4-6 sentences)
- Genuine and not like a mass email
- Respectful of the fact that you're asking for a favor`

// Settings selects the provider, key and model for one user's calls.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
}

func (s Settings) request(system, prompt string, maxTokens int) GenerationRequest {
	return GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: system,
		MaxTokens:    maxTokens,
		Provider:     s.Provider,
		Model:        s.Model,
		APIKey:       s.APIKey,
	}
}

type IGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type MessageInput struct {
	CandidateSummary string
	JobTitle         string
	Company          string
	RecipientName    string
}

type ReferralInput struct {
	CandidateSummary string
	JobTitle         string
	Company          string
	ContactName      string
	ContactRole      string
	Connection       string
}

// Composer builds the domain prompts on top of a generator.
type Composer struct {
	gen IGenerator
}

func NewComposer(gen IGenerator) *Composer {
	return &Composer{gen: gen}
}

// TryImproveBullet rewrites one bullet and reports failures to the caller.
func (c *Composer) TryImproveBullet(ctx context.Context, s Settings, bullet string, requirements []string, jobTitle string) (string, error) {
	var jobContext strings.Builder
	if len(requirements) > 0 {
		if len(requirements) > maxPromptRequirements {
			requirements = requirements[:maxPromptRequirements]
		}
		jobContext.WriteString("\nThe target job requires: " + strings.Join(requirements, ", "))
	}
	if jobTitle != "" {
		jobContext.WriteString("\nJob title: " + jobTitle)
	}
	prompt := fmt.Sprintf(`Rewrite the following resume bullet point to follow the Result-Impact-Context format:

Original bullet: "%s"
%s

Provide only the improved bullet point, nothing else. Do not add explanations or markdown formatting.`, bullet, jobContext.String())

	out, err := c.gen.Generate(ctx, s.request(improveBulletSystemPrompt, prompt, bulletMaxTokens))
	if err != nil {
		return "", err
	}
	improved := cleanBullet(out)
	if improved == "" {
		return "", fmt.Errorf("empty bullet after cleanup")
	}
	return improved, nil
}

// ImproveBullet never fails: on any error the original bullet is returned.
func (c *Composer) ImproveBullet(ctx context.Context, s Settings, bullet string, requirements []string, jobTitle string) string {
	improved, err := c.TryImproveBullet(ctx, s, bullet, requirements, jobTitle)
	if err != nil {
		logutil.GetLogger(ctx).Warn("improve bullet failed, keep original",
			zap.String("provider", s.Provider), zap.Error(err))
		return bullet
	}
	return improved
}

// NewBullet drafts one extra bullet around the first three requirements.
func (c *Composer) NewBullet(ctx context.Context, s Settings, requirements []string) (string, error) {
	if len(requirements) == 0 {
		return "", fmt.Errorf("no requirements to write about")
	}
	if len(requirements) > 3 {
		requirements = requirements[:3]
	}
	prompt := fmt.Sprintf("Generate a professional resume bullet point for someone with experience in %s. Keep it realistic and professional.",
		strings.Join(requirements, ", "))
	out, err := c.gen.Generate(ctx, s.request("", prompt, newBulletMaxTokens))
	if err != nil {
		return "", err
	}
	bullet := cleanBullet(out)
	if bullet == "" {
		return "", fmt.Errorf("empty bullet after cleanup")
	}
	return bullet, nil
}

func cleanBullet(s string) string {
	s = StripMarkdown(s)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "Improved:") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "Improved:"))
	}
	return s
}

func greetingFor(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Hello,"
	}
	return "Hello " + name + ","
}

func (c *Composer) RecruiterMessage(ctx context.Context, s Settings, in MessageInput) (string, error) {
	greeting := greetingFor(in.RecipientName)
	prompt := fmt.Sprintf(`Draft a LinkedIn message to a recruiter.

%s

Candidate background: %s

Job: %s at %s

Write a brief, authentic message expressing interest in the role and highlighting relevant experience. Keep it conversational and professional.`,
		greeting, in.CandidateSummary, in.JobTitle, in.Company)

	out, err := c.gen.Generate(ctx, s.request(recruiterSystemPrompt, prompt, messageMaxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMessageGenerationFailed, err)
	}
	message := StripMarkdown(out)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", ErrMessageGenerationFailed)
	}
	if !strings.HasPrefix(message, strings.TrimSuffix(greeting, ",")) {
		message = greeting + "\n\n" + message
	}
	return strings.TrimSpace(message), nil
}

func connectionContext(connection string) string {
	switch strings.TrimSpace(connection) {
	case "":
		return ""
	case "alumni":
		return "We both attended [University]."
	case "former colleague":
		return "We worked together at [Previous Company]."
	default:
		return "We are connected through " + connection + "."
	}
}

func (c *Composer) ReferralMessage(ctx context.Context, s Settings, in ReferralInput) (string, error) {
	role := ""
	if in.ContactRole != "" {
		role = " as a " + in.ContactRole
	}
	prompt := fmt.Sprintf(`Draft a LinkedIn message asking for a referral.

Hi %s,

%s

I saw that you're working at %s%s and noticed a %s opening that aligns with my background.

Candidate background: %s

Write a brief, friendly message that:
1. Introduces yourself and any shared context
2. Mentions interest in the role at %s
3. Highlights relevant experience briefly
4. Politely asks for a referral or advice about the role

Keep it genuine and appreciative.`,
		in.ContactName, connectionContext(in.Connection), in.Company, role, in.JobTitle, in.CandidateSummary, in.Company)

	out, err := c.gen.Generate(ctx, s.request(referralSystemPrompt, prompt, referralMaxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMessageGenerationFailed, err)
	}
	message := StripMarkdown(out)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", ErrMessageGenerationFailed)
	}
	return message, nil
}
