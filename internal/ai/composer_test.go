package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reqs []GenerationRequest
	out  string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

var testSettings = Settings{Provider: "groq", APIKey: "k"}

func TestImproveBulletFallsBackOnProviderError(t *testing.T) {
	gen := &fakeGenerator{err: &ProviderError{Kind: KindRateLimit, Provider: ProviderGroq, StatusCode: 429, Err: errors.New("slow down")}}
	c := NewComposer(gen)

	got := c.ImproveBullet(context.Background(), testSettings, "Built the billing system", []string{"Python"}, "Engineer")
	require.Equal(t, "Built the billing system", got)
}

func TestImproveBulletFallsBackOnConfigurationError(t *testing.T) {
	g, err := NewGateway(GatewayConfig{})
	require.NoError(t, err)
	c := NewComposer(g)
	got := c.ImproveBullet(context.Background(), Settings{Provider: "nope", APIKey: "k"}, "Original bullet", nil, "")
	require.Equal(t, "Original bullet", got)
}

func TestImproveBulletCleansOutput(t *testing.T) {
	gen := &fakeGenerator{out: `"Improved: Cut **latency** by 40% across 3 services"`}
	c := NewComposer(gen)

	got, err := c.TryImproveBullet(context.Background(), testSettings, "Made things faster", []string{"Go", "Docker", "Aws", "Sql", "Cloud", "Team"}, "Backend Engineer")
	require.NoError(t, err)
	require.Equal(t, "Cut latency by 40% across 3 services", got)

	require.Len(t, gen.reqs, 1)
	req := gen.reqs[0]
	require.Equal(t, bulletMaxTokens, req.MaxTokens)
	require.Equal(t, improveBulletSystemPrompt, req.SystemPrompt)
	require.Contains(t, req.Prompt, `Original bullet: "Made things faster"`)
	require.Contains(t, req.Prompt, "The target job requires: Go, Docker, Aws, Sql, Cloud")
	require.NotContains(t, req.Prompt, "Team")
	require.Contains(t, req.Prompt, "Job title: Backend Engineer")
}

func TestTryImproveBulletEmptyAfterCleanup(t *testing.T) {
	c := NewComposer(&fakeGenerator{out: `""`})
	_, err := c.TryImproveBullet(context.Background(), testSettings, "orig", nil, "")
	require.Error(t, err)
}

func TestRecruiterMessageAddsGreeting(t *testing.T) {
	gen := &fakeGenerator{out: "I came across the Data Engineer role and would love to talk."}
	c := NewComposer(gen)

	msg, err := c.RecruiterMessage(context.Background(), testSettings, MessageInput{
		CandidateSummary: "Professional with experience in data",
		JobTitle:         "Data Engineer",
		Company:          "Acme",
		RecipientName:    "Sam",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(msg, "Hello Sam,\n\nI came across"))
	require.Equal(t, messageMaxTokens, gen.reqs[0].MaxTokens)
	require.Contains(t, gen.reqs[0].Prompt, "Job: Data Engineer at Acme")
}

func TestRecruiterMessageKeepsExistingGreeting(t *testing.T) {
	gen := &fakeGenerator{out: "Hello, I am interested in the role."}
	msg, err := NewComposer(gen).RecruiterMessage(context.Background(), testSettings, MessageInput{JobTitle: "X", Company: "Y"})
	require.NoError(t, err)
	require.Equal(t, "Hello, I am interested in the role.", msg)
}

func TestRecruiterMessageSurfacesFailure(t *testing.T) {
	cause := &ProviderError{Kind: KindAuth, Provider: ProviderOpenAI, StatusCode: 401, Err: errors.New("bad key")}
	_, err := NewComposer(&fakeGenerator{err: cause}).RecruiterMessage(context.Background(), testSettings, MessageInput{})
	require.ErrorIs(t, err, ErrMessageGenerationFailed)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindAuth, kind)
}

func TestReferralMessage(t *testing.T) {
	gen := &fakeGenerator{out: "Hi Alex, hope you are well."}
	msg, err := NewComposer(gen).ReferralMessage(context.Background(), testSettings, ReferralInput{
		CandidateSummary: "Backend engineer",
		JobTitle:         "SRE",
		Company:          "Acme",
		ContactName:      "Alex",
		ContactRole:      "Staff Engineer",
		Connection:       "alumni",
	})
	require.NoError(t, err)
	require.Equal(t, "Hi Alex, hope you are well.", msg)
	prompt := gen.reqs[0].Prompt
	require.Contains(t, prompt, "We both attended [University].")
	require.Contains(t, prompt, "working at Acme as a Staff Engineer")
	require.Equal(t, referralMaxTokens, gen.reqs[0].MaxTokens)
}

func TestConnectionContext(t *testing.T) {
	require.Equal(t, "", connectionContext(""))
	require.Equal(t, "We worked together at [Previous Company].", connectionContext("former colleague"))
	require.Equal(t, "We are connected through the Go meetup.", connectionContext("the Go meetup"))
}

func TestNewBulletUsesFirstThreeRequirements(t *testing.T) {
	gen := &fakeGenerator{out: "- Deployed Python services on AWS with Docker"}
	c := NewComposer(gen)
	got, err := c.NewBullet(context.Background(), testSettings, []string{"Python", "Aws", "Docker", "Sql"})
	require.NoError(t, err)
	require.Equal(t, "Deployed Python services on AWS with Docker", got)
	require.Contains(t, gen.reqs[0].Prompt, "experience in Python, Aws, Docker.")
	require.Equal(t, newBulletMaxTokens, gen.reqs[0].MaxTokens)

	_, err = c.NewBullet(context.Background(), testSettings, nil)
	require.Error(t, err)
}
