//go:build integration

package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

/*
Test helpers for MongoDB with testcontainers.
Each call starts a mongo container, the cleanup terminates it.
*/

// MongoContainer holds the container and its connection string
type MongoContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
}

func SetupMongoContainer(t *testing.T, ctx context.Context) (*MongoContainer, func()) {
	t.Helper()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start mongo container")

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get mongo connection string")

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate mongo container: %v", err)
		}
	}

	return &MongoContainer{Container: container, URI: uri}, cleanup
}

// CreateTestRepository connects a repository and installs the collection schema
func CreateTestRepository(t *testing.T, ctx context.Context, uri string) *Repository {
	t.Helper()

	repo, err := NewRepository(ctx, uri, "library_test", "books")
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))

	return repo
}
