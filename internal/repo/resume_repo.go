package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/dbutil"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

var resumeColumns = []string{
	"id", "user_id", "filename", "file_key", "file_size", "name", "email", "phone",
	"text_content", "sections", "education_count", "experience_count", "ctime", "mtime",
}

var resumeSummaryColumns = []string{
	"id", "user_id", "filename", "file_key", "file_size", "name", "email", "phone",
	"education_count", "experience_count", "ctime", "mtime",
}

type ResumeRepo struct {
	db *sql.DB
}

func NewResumeRepo(db *sql.DB) *ResumeRepo {
	return &ResumeRepo{db: db}
}

// Create stores the resume and its bullets in one transaction.
func (r *ResumeRepo) Create(ctx context.Context, resume *model.Resume, bullets []string) error {
	sections, err := json.Marshal(resume.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	data := map[string]interface{}{
		"id":               resume.ID,
		"user_id":          resume.UserID,
		"filename":         resume.Filename,
		"file_key":         resume.FileKey,
		"file_size":        resume.FileSize,
		"name":             resume.Name,
		"email":            resume.Email,
		"phone":            resume.Phone,
		"text_content":     resume.Text,
		"sections":         string(sections),
		"education_count":  resume.EducationCount,
		"experience_count": resume.ExperienceCount,
		"ctime":            resume.Ctime,
		"mtime":            resume.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("resumes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	if len(bullets) > 0 {
		rows := make([]map[string]interface{}, 0, len(bullets))
		for i, text := range bullets {
			rows = append(rows, map[string]interface{}{
				"resume_id": resume.ID,
				"position":  i,
				"text":      text,
			})
		}
		sqlStr, args, err := builder.BuildInsert("bullets", rows)
		if err != nil {
			return err
		}
		sqlStr, args = dbutil.Finalize(sqlStr, args)
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ResumeRepo) GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	where := map[string]interface{}{"id": resumeID, "user_id": userID}
	sqlStr, args, err := builder.BuildSelect("resumes", where, resumeColumns)
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
	var item model.Resume
	var sections string
	if err := rows.Scan(&item.ID, &item.UserID, &item.Filename, &item.FileKey, &item.FileSize,
		&item.Name, &item.Email, &item.Phone, &item.Text, &sections,
		&item.EducationCount, &item.ExperienceCount, &item.Ctime, &item.Mtime); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sections), &item.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return &item, nil
}

// ListByUser returns resume metadata, newest first, without text or sections.
func (r *ResumeRepo) ListByUser(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where, resumeSummaryColumns)
	if err != nil {
		return nil, err
	}
	rows, err := query(ctx, r.db, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []model.Resume
	for rows.Next() {
		var item model.Resume
		if err := rows.Scan(&item.ID, &item.UserID, &item.Filename, &item.FileKey, &item.FileSize,
			&item.Name, &item.Email, &item.Phone,
			&item.EducationCount, &item.ExperienceCount, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListWithoutEmbedding finds resumes that have no full-text vector yet.
func (r *ResumeRepo) ListWithoutEmbedding(ctx context.Context, limit int) ([]model.EmbeddingOwner, error) {
	const q = `
		SELECT r.id, r.text_content
		FROM resumes r
		LEFT JOIN embeddings e ON e.owner_kind = $1 AND e.owner_id = r.id AND e.section = $2
		WHERE e.owner_id IS NULL
		ORDER BY r.ctime
		LIMIT $3
	`
	return listOwners(ctx, r.db, q, model.OwnerResume, limit)
}
