package context

import (
	stdctx "context"

	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/match"
	"github.com/hyggehome/imagesync/internal/mirror"
)

// MockContext provides a mock implementation of Context for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type MockContext struct {
	ClientFunc      func() (*cms.Client, error)
	MatcherFunc     func(ctx stdctx.Context) (*match.Engine, error)
	MirrorFunc      func() ([]mirror.Descriptor, error)
	ImagesDirFunc   func() string
	MappingFileFunc func() string
	LoggerFunc      func() *zerolog.Logger
}

// Client returns a client using the mock function or nil.
func (m *MockContext) Client() (*cms.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// Matcher returns an engine using the mock function or a keyword-only engine.
func (m *MockContext) Matcher(ctx stdctx.Context) (*match.Engine, error) {
	if m.MatcherFunc != nil {
		return m.MatcherFunc(ctx)
	}
	return &match.Engine{Log: zerolog.Nop()}, nil
}

// Mirror returns descriptors using the mock function or none.
func (m *MockContext) Mirror() ([]mirror.Descriptor, error) {
	if m.MirrorFunc != nil {
		return m.MirrorFunc()
	}
	return nil, nil
}

// ImagesDir returns the images directory using the mock function or ".".
func (m *MockContext) ImagesDir() string {
	if m.ImagesDirFunc != nil {
		return m.ImagesDirFunc()
	}
	return "."
}

// MappingFile returns the mapping path using the mock function or the default.
func (m *MockContext) MappingFile() string {
	if m.MappingFileFunc != nil {
		return m.MappingFileFunc()
	}
	return "image-mapping.json"
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}
