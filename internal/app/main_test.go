//go:build integration

package app

import (
	"os"
	"testing"

	"github.com/guttosm/pack-advice/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithSharedMongoDB(m))
}
