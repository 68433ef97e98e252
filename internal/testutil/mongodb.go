//go:build integration

// Package testutil starts the containers used by the integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// maxDBNameLength keeps generated names below the MongoDB namespace limit.
const maxDBNameLength = 50

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a MongoDB container. Packages with many integration
// tests share one through RunWithSharedMongoDB instead.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get MongoDB connection string: %w", err)
	}
	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the MongoDB container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

var (
	shared     *MongoDBContainer
	sharedErr  error
	sharedOnce sync.Once
)

// RunWithSharedMongoDB runs the package tests against one MongoDB container
// and terminates it afterwards. Call it from TestMain.
func RunWithSharedMongoDB(m *testing.M) int {
	ctx := context.Background()
	sharedOnce.Do(func() {
		shared, sharedErr = SetupMongoDB(ctx)
	})
	if sharedErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "mongodb container: %v\n", sharedErr)
		return 1
	}
	defer func() {
		if err := shared.Cleanup(ctx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "terminate mongodb container: %v\n", err)
		}
	}()
	return m.Run()
}

// SharedMongoURI is the connection string of the container started by
// RunWithSharedMongoDB.
func SharedMongoURI(t testing.TB) string {
	t.Helper()
	if shared == nil {
		t.Fatal("no shared MongoDB container; call RunWithSharedMongoDB from TestMain")
	}
	return shared.URI
}

var dbNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_", "$", "_", "\"", "_")

// UniqueDatabaseName derives a database name from the test name, so tests
// sharing a container never see each other's advice or catalog data.
func UniqueDatabaseName(t testing.TB) string {
	name := dbNameReplacer.Replace(t.Name())
	if len(name) > maxDBNameLength {
		name = name[:maxDBNameLength]
	}
	return fmt.Sprintf("%s_%d", name, dbSeq.Add(1))
}

var dbSeq atomic.Int64
