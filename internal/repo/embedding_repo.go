package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/nextstep/internal/model"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

type EmbeddingRepo struct {
	db *sql.DB
}

func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

// Upsert keeps at most one vector per (owner_kind, owner_id, section).
func (r *EmbeddingRepo) Upsert(ctx context.Context, emb *model.EmbeddingVector) error {
	const q = `
		INSERT INTO embeddings (owner_kind, owner_id, section, embedding, model_name, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_kind, owner_id, section) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			model_name = EXCLUDED.model_name,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, q,
		string(emb.OwnerKind),
		emb.OwnerID,
		emb.Section,
		pgvector.NewVector(emb.Values),
		emb.ModelName,
		emb.Mtime,
	)
	return err
}

func (r *EmbeddingRepo) Get(ctx context.Context, kind model.OwnerKind, ownerID, section string) (*model.EmbeddingVector, error) {
	const q = `
		SELECT embedding, model_name, mtime
		FROM embeddings
		WHERE owner_kind = $1 AND owner_id = $2 AND section = $3
	`
	item := model.EmbeddingVector{OwnerKind: kind, OwnerID: ownerID, Section: section}
	var vec pgvector.Vector
	err := r.db.QueryRowContext(ctx, q, string(kind), ownerID, section).Scan(&vec, &item.ModelName, &item.Mtime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	item.Values = vec.Slice()
	return &item, nil
}

// listOwners runs a "missing full vector" query taking kind, section and limit.
func listOwners(ctx context.Context, db *sql.DB, q string, kind model.OwnerKind, limit int) ([]model.EmbeddingOwner, error) {
	rows, err := db.QueryContext(ctx, q, string(kind), model.EmbeddingSectionFull, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var owners []model.EmbeddingOwner
	for rows.Next() {
		owner := model.EmbeddingOwner{OwnerKind: kind}
		if err := rows.Scan(&owner.OwnerID, &owner.Text); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}
