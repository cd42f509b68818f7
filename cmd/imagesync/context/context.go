// Package context provides the application context interface for imagesync
// commands.
//
// The Context interface is the contract between the application layer and
// command implementations. Commands accept this interface rather than the
// concrete App type, which keeps them testable with a mock.
package context

import (
	stdctx "context"

	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/mirror"
)

// Context provides the application dependencies that commands need.
// The App struct from cmd/imagesync/app implements this interface.
type Context interface {
	// Client returns the content API client, constructed lazily from
	// configuration. The same instance is returned on every call.
	Client() (*cms.Client, error)

	// Matcher returns the match engine, with the semantic matcher wired
	// in when an API key is configured.
	Matcher(ctx stdctx.Context) (*match.Engine, error)

	// Mirror returns the local asset mirror descriptors. An absent mirror
	// directory yields an empty slice.
	Mirror() ([]mirror.Descriptor, error)

	// ImagesDir returns the configured image source directory.
	ImagesDir() string

	// MappingFile returns the path of the mapping checkpoint file.
	MappingFile() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger
}
