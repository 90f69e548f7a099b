package model

// UserSettings holds a user's generation provider preference. APIKey is
// the sealed form as stored, never the plaintext.
type UserSettings struct {
	UserID          string `json:"user_id"`
	Provider        string `json:"ai_provider"`
	SealedAPIKey    string `json:"-"`
	ModelPreference string `json:"model_preference"`
	Mtime           int64  `json:"mtime"`
}
