package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv pins every setting the validation logic looks at, so ambient
// environment variables cannot leak into the assertions.
func setBaseEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_OWNER", "")
	t.Setenv("GITHUB_REPO", "")
	t.Setenv("DYNAMODB_TABLE", "")
	t.Setenv("ADMIN_SECRET", "s3cret")
}

func TestLoad(t *testing.T) {
	t.Run("GitHub Backend Is The Default", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("GITHUB_TOKEN", "tok")
		t.Setenv("GITHUB_OWNER", "owner")
		t.Setenv("GITHUB_REPO", "repo")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BackendGitHub, cfg.StorageBackend)
		assert.Equal(t, "main", cfg.GitHubBranch)
	})

	t.Run("GitHub Backend Requires Repo Settings", func(t *testing.T) {
		setBaseEnv(t)

		_, err := Load()
		assert.ErrorContains(t, err, "GITHUB_TOKEN")
	})

	t.Run("DynamoDB Backend Skips GitHub Settings", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_BACKEND", "dynamodb")
		t.Setenv("DYNAMODB_TABLE", "storefront-documents")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BackendDynamoDB, cfg.StorageBackend)
		assert.Equal(t, "storefront-documents", cfg.DynamoDBTable)
	})

	t.Run("DynamoDB Backend Requires A Table", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_BACKEND", "dynamodb")

		_, err := Load()
		assert.ErrorContains(t, err, "DYNAMODB_TABLE")
	})

	t.Run("Unknown Backend Is Rejected", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_BACKEND", "postgres")

		_, err := Load()
		assert.ErrorContains(t, err, "STORAGE_BACKEND")
	})

	t.Run("Admin Secret Is Mandatory", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("GITHUB_TOKEN", "tok")
		t.Setenv("GITHUB_OWNER", "owner")
		t.Setenv("GITHUB_REPO", "repo")
		t.Setenv("ADMIN_SECRET", "")

		_, err := Load()
		assert.ErrorContains(t, err, "ADMIN_SECRET")
	})
}
