package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/nextstep/internal/model"
)

type BulletRepo struct {
	db *sql.DB
}

func NewBulletRepo(db *sql.DB) *BulletRepo {
	return &BulletRepo{db: db}
}

// ListByResume returns bullets in their original order; limit <= 0 means all.
func (r *BulletRepo) ListByResume(ctx context.Context, resumeID string, limit int) ([]model.Bullet, error) {
	where := map[string]interface{}{
		"resume_id": resumeID,
		"_orderby":  "position asc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, uint(limit)}
	}
	sqlStr, args, err := builder.BuildSelect("bullets", where, []string{"resume_id", "position", "text"})
	if err != nil {
		return nil, err
	}
	rows, err := query(ctx, r.db, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []model.Bullet
	for rows.Next() {
		var item model.Bullet
		if err := rows.Scan(&item.ResumeID, &item.Position, &item.Text); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
