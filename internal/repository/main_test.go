//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithSharedMongoDB(m))
}

// newTestMongoDB connects to a fresh database on the shared container and
// disconnects when the test ends.
func newTestMongoDB(t *testing.T) *MongoDB {
	t.Helper()
	db, err := NewMongoDB(testutil.SharedMongoURI(t), testutil.UniqueDatabaseName(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}
