package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	where := map[string]interface{}{"user_id": userID}
	sqlStr, args, err := builder.BuildSelect("user_settings", where,
		[]string{"user_id", "ai_provider", "api_key_sealed", "model_preference", "mtime"})
	if err != nil {
		return nil, err
	}
	rows, err := query(ctx, r.db, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var item model.UserSettings
	if err := rows.Scan(&item.UserID, &item.Provider, &item.SealedAPIKey, &item.ModelPreference, &item.Mtime); err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert writes every field; callers merge with the stored row first.
func (r *SettingsRepo) Upsert(ctx context.Context, s *model.UserSettings) error {
	const q = `
		INSERT INTO user_settings (user_id, ai_provider, api_key_sealed, model_preference, mtime)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			ai_provider = EXCLUDED.ai_provider,
			api_key_sealed = EXCLUDED.api_key_sealed,
			model_preference = EXCLUDED.model_preference,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, q, s.UserID, s.Provider, s.SealedAPIKey, s.ModelPreference, s.Mtime)
	return err
}
