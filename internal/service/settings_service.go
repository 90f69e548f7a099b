package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/config"
	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/pkg/secret"
	"github.com/xxxsen/nextstep/internal/pkg/timeutil"
)

const (
	defaultSettingsProvider = "openai"
	defaultSettingsModel    = "gpt-4-turbo-preview"
)

type SettingsStore interface {
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	Upsert(ctx context.Context, s *model.UserSettings) error
}

// SettingsView is what clients see; the key only ever appears masked.
type SettingsView struct {
	Provider        string `json:"ai_provider"`
	APIKeyMasked    string `json:"api_key_masked,omitempty"`
	ModelPreference string `json:"model_preference,omitempty"`
}

type SettingsUpdate struct {
	Provider        string `json:"ai_provider"`
	APIKey          string `json:"api_key"`
	ModelPreference string `json:"model_preference"`
}

type SettingsService struct {
	store    SettingsStore
	box      *secret.Box
	fallback config.AIConfig
}

func NewSettingsService(store SettingsStore, box *secret.Box, fallback config.AIConfig) *SettingsService {
	return &SettingsService{store: store, box: box, fallback: fallback}
}

func (s *SettingsService) Get(ctx context.Context, userID string) (*SettingsView, error) {
	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return &SettingsView{Provider: defaultSettingsProvider, ModelPreference: defaultSettingsModel}, nil
		}
		return nil, err
	}
	return s.view(ctx, stored), nil
}

func (s *SettingsService) view(ctx context.Context, stored *model.UserSettings) *SettingsView {
	v := &SettingsView{Provider: stored.Provider, ModelPreference: stored.ModelPreference}
	if stored.SealedAPIKey == "" {
		return v
	}
	plain, err := s.box.Open(stored.SealedAPIKey)
	if err != nil {
		logutil.GetLogger(ctx).Warn("stored api key cannot be opened", zap.String("user_id", stored.UserID), zap.Error(err))
		return v
	}
	v.APIKeyMasked = secret.Mask(plain)
	return v
}

// Update replaces the provider and keeps the stored key or model when the
// update leaves them empty.
func (s *SettingsService) Update(ctx context.Context, userID string, in SettingsUpdate) (*SettingsView, error) {
	provider, err := ai.ParseProvider(in.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", appErr.ErrInvalid, err)
	}
	current, err := s.store.Get(ctx, userID)
	if err != nil {
		if !appErr.IsNotFound(err) {
			return nil, err
		}
		current = &model.UserSettings{UserID: userID}
	}
	current.Provider = string(provider)
	if key := strings.TrimSpace(in.APIKey); key != "" {
		sealed, err := s.box.Seal(key)
		if err != nil {
			return nil, err
		}
		current.SealedAPIKey = sealed
	}
	if m := strings.TrimSpace(in.ModelPreference); m != "" {
		current.ModelPreference = m
	}
	current.Mtime = timeutil.NowUnix()
	if err := s.store.Upsert(ctx, current); err != nil {
		return nil, err
	}
	return s.view(ctx, current), nil
}

// Resolve returns the generation settings used for a user's calls. Users
// without stored settings get the configured default key, if any. An empty
// APIKey in the result means generation is not configured.
func (s *SettingsService) Resolve(ctx context.Context, userID string) (ai.Settings, error) {
	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return ai.Settings{
				Provider: s.fallback.DefaultProvider,
				Model:    s.fallback.DefaultModel,
				APIKey:   s.fallback.DefaultAPIKey,
			}, nil
		}
		return ai.Settings{}, err
	}
	out := ai.Settings{Provider: stored.Provider, Model: stored.ModelPreference}
	if stored.SealedAPIKey != "" {
		plain, err := s.box.Open(stored.SealedAPIKey)
		if err != nil {
			return ai.Settings{}, fmt.Errorf("open api key: %w", err)
		}
		out.APIKey = plain
	}
	return out, nil
}

// ResolveConfigured is Resolve that reports a missing key as a configuration
// error, for the direct endpoints.
func (s *SettingsService) ResolveConfigured(ctx context.Context, userID string) (ai.Settings, error) {
	settings, err := s.Resolve(ctx, userID)
	if err != nil {
		return settings, err
	}
	if settings.APIKey == "" {
		return settings, fmt.Errorf("%w: no api key configured for %q", ai.ErrConfiguration, settings.Provider)
	}
	return settings, nil
}
