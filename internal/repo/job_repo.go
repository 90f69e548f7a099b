package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

var jobColumns = []string{"id", "user_id", "title", "company", "description", "resume_id", "ctime"}

type JobRepo struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	data := map[string]interface{}{
		"id":          job.ID,
		"user_id":     job.UserID,
		"title":       job.Title,
		"company":     job.Company,
		"description": job.Description,
		"resume_id":   job.ResumeID,
		"ctime":       job.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("jobs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	return exec(ctx, r.db, sqlStr, args, false)
}

func (r *JobRepo) GetByID(ctx context.Context, userID, jobID string) (*model.Job, error) {
	items, err := r.list(ctx, map[string]interface{}{"id": jobID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &items[0], nil
}

func (r *JobRepo) ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	return r.list(ctx, where)
}

func (r *JobRepo) list(ctx context.Context, where map[string]interface{}) ([]model.Job, error) {
	sqlStr, args, err := builder.BuildSelect("jobs", where, jobColumns)
	if err != nil {
		return nil, err
	}
	rows, err := query(ctx, r.db, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []model.Job
	for rows.Next() {
		var item model.Job
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Company, &item.Description, &item.ResumeID, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListWithoutEmbedding finds jobs that have no full-text vector yet. The
// owner text is the description, the same text a new job is embedded from.
func (r *JobRepo) ListWithoutEmbedding(ctx context.Context, limit int) ([]model.EmbeddingOwner, error) {
	const q = `
		SELECT j.id, j.description
		FROM jobs j
		LEFT JOIN embeddings e ON e.owner_kind = $1 AND e.owner_id = j.id AND e.section = $2
		WHERE e.owner_id IS NULL
		ORDER BY j.ctime
		LIMIT $3
	`
	return listOwners(ctx, r.db, q, model.OwnerJob, limit)
}
