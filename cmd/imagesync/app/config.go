package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/mapping"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and command-line flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Remote API configuration
	BaseURL  string
	Project  string
	Token    string
	Category string

	// AuthHeader selects custom-header authentication when set; the
	// default is a bearer token.
	AuthHeader string

	// Pipeline paths
	ImagesDir   string
	MirrorDir   string
	MappingFile string

	// Semantic matching
	GeminiAPIKey string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys()

	config := &Config{
		BaseURL:  viper.GetString("CMS_BASE_URL"),
		Project:  viper.GetString("CMS_PROJECT_ID"),
		Token:    viper.GetString("CMS_API_TOKEN"),
		Category: viper.GetString("CMS_CATEGORY"),

		AuthHeader: viper.GetString("CMS_AUTH_HEADER"),

		ImagesDir:   viper.GetString("IMAGES_DIR"),
		MirrorDir:   viper.GetString("ASSET_MIRROR_DIR"),
		MappingFile: viper.GetString("MAPPING_FILE"),

		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Defaults
	if config.Category == "" {
		config.Category = cms.DefaultCategory
	}
	if config.ImagesDir == "" {
		config.ImagesDir = filepath.Join("public", "images")
	}
	if config.MappingFile == "" {
		config.MappingFile = mapping.DefaultFile
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags. Called
// after cobra parses flags so flag values take precedence over env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the configuration environment variables to
// Viper so they are visible even before first access.
func bindEnvKeys() {
	keys := []string{
		"CMS_BASE_URL",
		"CMS_PROJECT_ID",
		"CMS_API_TOKEN",
		"CMS_CATEGORY",
		"CMS_AUTH_HEADER",
		"IMAGES_DIR",
		"ASSET_MIRROR_DIR",
		"MAPPING_FILE",
		"GEMINI_API_KEY",
	}

	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
