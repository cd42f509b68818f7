// Package app provides the application context and dependency management
// for the imagesync CLI. It centralizes configuration, logging, and the
// lazily constructed pipeline dependencies.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/mirror"
	"github.com/hyggehome/imagesync/internal/semantic"
	"github.com/hyggehome/imagesync/pkg/logging"
)

// App represents the imagesync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily constructed dependencies
	mu     sync.Mutex
	client *cms.Client
	engine *match.Engine
}

// Option customizes an App during construction.
type Option func(*App) error

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger
	logging.SetDefault(logger)

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the content API client, creating it on first use. The
// same instance is returned afterwards.
func (a *App) Client() (*cms.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts := []cms.Option{
		cms.WithCategory(a.config.Category),
		cms.WithLogger(*a.logger),
	}
	if a.config.AuthHeader != "" {
		opts = append(opts, cms.WithAuthenticator(&cms.HeaderAuth{Header: a.config.AuthHeader}))
	}

	client, err := cms.New(a.config.BaseURL, a.config.Project, a.config.Token, opts...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// Matcher returns the match engine. When a Gemini API key is configured the
// semantic matcher is wired in; otherwise the engine is keyword-only. A
// failure to construct the semantic client degrades to keyword-only rather
// than failing the run.
func (a *App) Matcher(ctx context.Context) (*match.Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	engine := &match.Engine{Log: *a.logger}
	if a.config.GeminiAPIKey != "" {
		picker, err := semantic.New(ctx, a.config.GeminiAPIKey)
		if err != nil {
			a.logger.Warn().Err(err).Msg("semantic matcher unavailable, using keyword matching only")
		} else if picker != nil {
			engine.Semantic = picker
		}
	}
	a.engine = engine
	return engine, nil
}

// Mirror loads the local asset mirror descriptors. An absent directory is
// not an error.
func (a *App) Mirror() ([]mirror.Descriptor, error) {
	return mirror.Load(a.config.MirrorDir, *a.logger)
}

// ImagesDir returns the configured image source directory.
func (a *App) ImagesDir() string {
	return a.config.ImagesDir
}

// MappingFile returns the path of the mapping checkpoint file.
func (a *App) MappingFile() string {
	return a.config.MappingFile
}

// Shutdown releases application resources. The pipeline holds no long-lived
// connections, so this only exists for symmetric lifecycle handling in main.
func (a *App) Shutdown(_ context.Context) error {
	return nil
}
