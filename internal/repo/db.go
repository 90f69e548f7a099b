package repo

import (
	"context"
	"database/sql"

	"github.com/xxxsen/nextstep/internal/pkg/dbutil"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
)

// exec runs a gendry statement against postgres. When mustAffect is set a
// statement that touched no row reports ErrNotFound.
func exec(ctx context.Context, db *sql.DB, sqlStr string, args []interface{}, mustAffect bool) error {
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	if !mustAffect {
		return nil
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func query(ctx context.Context, db *sql.DB, sqlStr string, args []interface{}) (*sql.Rows, error) {
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return db.QueryContext(ctx, sqlStr, args...)
}
