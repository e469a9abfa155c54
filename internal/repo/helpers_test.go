package repo_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rideshare/backend/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// rolled back when the test finishes, giving free per-test isolation.
// The test is skipped when TEST_DATABASE_URL is not set.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, so no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// backdate rewrites created_at of a row so age-based sweeps can be tested
// without waiting.
func backdate(t *testing.T, tx pgx.Tx, table string, id any, sql string) {
	t.Helper()
	_, err := tx.Exec(context.Background(), `UPDATE `+table+` SET created_at = `+sql+` WHERE id = $1`, id)
	require.NoError(t, err, "backdate %s", table)
}
