package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/nextstep/internal/model"
)

var recommendationColumns = []string{"id", "user_id", "job_id", "resume_id", "recruiter_message", "improved_bullets", "ctime"}

type RecommendationRepo struct {
	db *sql.DB
}

func NewRecommendationRepo(db *sql.DB) *RecommendationRepo {
	return &RecommendationRepo{db: db}
}

func (r *RecommendationRepo) Create(ctx context.Context, rec *model.Recommendation) error {
	bullets := rec.ImprovedBullets
	if bullets == nil {
		bullets = []model.BulletImprovement{}
	}
	blob, err := json.Marshal(bullets)
	if err != nil {
		return fmt.Errorf("encode bullets: %w", err)
	}
	data := map[string]interface{}{
		"id":                rec.ID,
		"user_id":           rec.UserID,
		"job_id":            rec.JobID,
		"resume_id":         rec.ResumeID,
		"recruiter_message": rec.RecruiterMessage,
		"improved_bullets":  string(blob),
		"ctime":             rec.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("recommendations", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	return exec(ctx, r.db, sqlStr, args, false)
}

// List returns a user's recommendations, newest first. Empty jobID or
// resumeID do not filter.
func (r *RecommendationRepo) List(ctx context.Context, userID, jobID, resumeID string, limit uint) ([]model.Recommendation, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
	}
	if jobID != "" {
		where["job_id"] = jobID
	}
	if resumeID != "" {
		where["resume_id"] = resumeID
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("recommendations", where, recommendationColumns)
	if err != nil {
		return nil, err
	}
	rows, err := query(ctx, r.db, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []model.Recommendation
	for rows.Next() {
		var item model.Recommendation
		var blob string
		if err := rows.Scan(&item.ID, &item.UserID, &item.JobID, &item.ResumeID, &item.RecruiterMessage, &blob, &item.Ctime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &item.ImprovedBullets); err != nil {
			return nil, fmt.Errorf("decode bullets: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
