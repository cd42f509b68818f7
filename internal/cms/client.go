package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyggehome/imagesync/pkg/errors"
	"github.com/hyggehome/imagesync/pkg/logging"
)

// DefaultTimeout bounds each individual HTTP request.
const DefaultTimeout = 30 * time.Second

// DefaultCategory is the content category the loader filters entries to.
const DefaultCategory = "product"

// Client speaks to the remote content API. All calls are sequential; the
// client holds no mutable state beyond its configuration.
type Client struct {
	httpClient *http.Client
	base       string
	project    string
	token      string
	category   string
	auth       Authenticator
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client, used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCategory overrides the entry category filter.
func WithCategory(category string) Option {
	return func(c *Client) {
		if category != "" {
			c.category = category
		}
	}
}

// WithAuthenticator overrides the authentication scheme.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) { c.auth = auth }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a content API client for the given deployment.
func New(base, project, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, &errors.ConfigError{Key: "CMS_API_TOKEN", Message: "API token is required"}
	}
	if project == "" {
		return nil, &errors.ConfigError{Key: "CMS_PROJECT_ID", Message: "project identifier is required"}
	}
	if base == "" {
		return nil, &errors.ConfigError{Key: "CMS_BASE_URL", Message: "base URL is required"}
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		base:       base,
		project:    project,
		token:      token,
		category:   DefaultCategory,
		auth:       &BearerAuth{},
		log:        logging.Nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newRequest builds an authenticated request.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	c.auth.Apply(req, c.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// get performs a GET against one candidate URL with optional query values.
func (c *Client) get(ctx context.Context, rawURL string, query url.Values) (*http.Response, error) {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// ListEntries returns the remote entries of the configured category.
// Only the page the remote returns is consumed; no cursor following.
func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	body, err := c.probe(ctx, OpListEntries, "", func(ctx context.Context, candidate string) (*http.Response, error) {
		return c.get(ctx, candidate, url.Values{"category": {c.category}})
	})
	if err != nil {
		return nil, err
	}

	items, err := itemsFromList(body, "entries")
	if err != nil {
		return nil, errors.WrapParse("json", "entries response", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entry, err := entryFromRaw(item)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping entry without id")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetEntry fetches one entry by id.
func (c *Client) GetEntry(ctx context.Context, id string) (Entry, error) {
	body, err := c.probe(ctx, OpGetEntry, id, func(ctx context.Context, candidate string) (*http.Response, error) {
		return c.get(ctx, candidate, nil)
	})
	if err != nil {
		return Entry{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Entry{}, errors.WrapParse("json", "entry response", err)
	}
	// Single-record responses are sometimes nested under the resource name.
	if nested, ok := raw["entry"].(map[string]any); ok {
		raw = nested
	}
	return entryFromRaw(raw)
}

// payloadShape is one guess at the update payload schema. Shapes are tried
// strictly in order; append new shapes here rather than branching in the
// update flow.
type payloadShape struct {
	name   string
	encode func(fields map[string]any, assetID string) any
}

// updateShapes are the known payload conventions for entry updates, most
// specific first: the fields-wrapped object reference, the fields-wrapped
// bare id, then the flat structure older deployments accept.
var updateShapes = []payloadShape{
	{
		name: "fields-reference",
		encode: func(fields map[string]any, assetID string) any {
			merged := mergeFields(fields)
			merged["image"] = map[string]any{"id": assetID}
			return map[string]any{"fields": merged}
		},
	},
	{
		name: "fields-id",
		encode: func(fields map[string]any, assetID string) any {
			merged := mergeFields(fields)
			merged["image"] = assetID
			return map[string]any{"fields": merged}
		},
	},
	{
		name: "flat",
		encode: func(fields map[string]any, assetID string) any {
			merged := mergeFields(fields)
			merged["image"] = assetID
			return merged
		},
	},
}

// mergeFields shallow-copies the previously fetched fields so the update
// spreads them back instead of dropping them.
func mergeFields(fields map[string]any) map[string]any {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

// UpdateEntryImage writes the asset reference into the entry's image field,
// spreading the given baseline fields. Every payload shape is tried against
// every endpoint candidate until one write is accepted; the first success
// ends the attempt and remaining combinations are skipped.
func (c *Client) UpdateEntryImage(ctx context.Context, id string, fields map[string]any, assetID string) error {
	var lastErr error

	for _, shape := range updateShapes {
		payload, err := json.Marshal(shape.encode(fields, assetID))
		if err != nil {
			return errors.WrapParse("json", "update payload", err)
		}

		_, err = c.probe(ctx, OpUpdateEntry, id, func(ctx context.Context, candidate string) (*http.Response, error) {
			req, err := c.newRequest(ctx, http.MethodPut, candidate, bytes.NewReader(payload), "application/json")
			if err != nil {
				return nil, err
			}
			return c.httpClient.Do(req)
		})
		if err == nil {
			c.log.Debug().Str("entry", id).Str("shape", shape.name).Msg("entry update accepted")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		c.log.Debug().Str("entry", id).Str("shape", shape.name).Err(err).Msg("payload shape rejected")
	}

	return lastErr
}
