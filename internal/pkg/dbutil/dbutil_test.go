package dbutil

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRewritesLimit(t *testing.T) {
	query, args := Finalize("SELECT id FROM jobs WHERE user_id=? LIMIT ?,?", []interface{}{"u", 10, 20})
	require.Equal(t, "SELECT id FROM jobs WHERE user_id=$1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{"u", 20, 10}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.True(t, IsConflict(fmt.Errorf("wrap: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(nil))
}
