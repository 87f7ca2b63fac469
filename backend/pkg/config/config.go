package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	apperrors "relation-kg/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Data files
	DataDir           string
	RelationFile      string // header-plus-rows relation quadruples
	BigRelationFile   string // coarse relation distribution
	SmallRelationFile string // fine relation distribution
	ImageMapFile      string // person name -> stored image filename (JSON)
	ImageDir          string // stored portrait binaries
	RelationIDPolicy  string // "line" (raw line ordinal) or "record" (parsed row ordinal)

	// API
	DefaultPageSize    int
	MaxUploadMB        int
	CORSAllowedOrigins []string

	// Neo4j (optional, graph export only)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		Env:                getEnv("ENV", "development"),
		DataDir:            dataDir,
		RelationFile:       getEnv("RELATION_FILE", filepath.Join(dataDir, "person_rel_kg.data")),
		BigRelationFile:    getEnv("BIG_RELATION_FILE", filepath.Join(dataDir, "big_rel_distribution.txt")),
		SmallRelationFile:  getEnv("SMALL_RELATION_FILE", filepath.Join(dataDir, "small_rel_distribution.txt")),
		ImageMapFile:       getEnv("IMAGE_MAP_FILE", filepath.Join(dataDir, "person_image_map.json")),
		ImageDir:           getEnv("IMAGE_DIR", filepath.Join(dataDir, "person_images")),
		RelationIDPolicy:   getEnv("RELATION_ID_POLICY", "line"),
		DefaultPageSize:    getEnvInt("DEFAULT_PAGE_SIZE", 20),
		MaxUploadMB:        getEnvInt("MAX_UPLOAD_MB", 10),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Neo4jURI:           getEnv("NEO4J_URI", ""),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.RelationFile == "" {
		return apperrors.NewConfigMissingRequired("RELATION_FILE")
	}
	if c.ImageMapFile == "" {
		return apperrors.NewConfigMissingRequired("IMAGE_MAP_FILE")
	}
	if c.ImageDir == "" {
		return apperrors.NewConfigMissingRequired("IMAGE_DIR")
	}
	if c.RelationIDPolicy != "line" && c.RelationIDPolicy != "record" {
		return apperrors.NewConfigValidationFailed("RELATION_ID_POLICY", "must be line or record")
	}
	if c.DefaultPageSize <= 0 {
		return apperrors.NewConfigValidationFailed("DEFAULT_PAGE_SIZE", "must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_UPLOAD_MB", "must be positive")
	}
	// Neo4j settings are only needed by the export script
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// HasNeo4j reports whether a graph export target is configured
func (c *Config) HasNeo4j() bool {
	return c.Neo4jURI != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
