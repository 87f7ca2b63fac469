package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "relation-kg/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATA_DIR", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, filepath.Join("data", "person_rel_kg.data"), cfg.RelationFile)
	assert.Equal(t, filepath.Join("data", "person_images"), cfg.ImageDir)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "line", cfg.RelationIDPolicy)
	assert.False(t, cfg.HasNeo4j())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATA_DIR", "/srv/kg")
	t.Setenv("DEFAULT_PAGE_SIZE", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, http://example.org")
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/kg", "big_rel_distribution.txt"), cfg.BigRelationFile)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, []string{"http://localhost:5173", "http://example.org"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.HasNeo4j())
}

func TestValidate_RejectsNonPositivePageSize(t *testing.T) {
	cfg := &Config{Port: "5000", RelationFile: "a", ImageMapFile: "b", ImageDir: "c", RelationIDPolicy: "line", DefaultPageSize: 0, MaxUploadMB: 1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}

func TestLoad_RelationIDPolicy(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("RELATION_ID_POLICY", "record")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "record", cfg.RelationIDPolicy)

	t.Setenv("RELATION_ID_POLICY", "column")
	_, err = Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
