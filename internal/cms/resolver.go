package cms

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/hyggehome/imagesync/pkg/errors"
)

// Operation names one remote API call the pipeline performs.
type Operation string

// Operations against the remote content API.
const (
	OpListEntries Operation = "list entries"
	OpGetEntry    Operation = "get entry"
	OpUpdateEntry Operation = "update entry"
	OpListAssets  Operation = "list assets"
	OpUploadAsset Operation = "upload asset"
)

// endpointCandidates holds the ordered URL-shape templates per operation.
// Deployments of this API have shipped with and without the /api prefix and
// with and without the version segment, and not consistently across
// operations, so each operation carries its own ordered list.
var endpointCandidates = map[Operation][]string{
	OpListEntries: {
		"/api/v1/projects/{project}/entries",
		"/v1/projects/{project}/entries",
		"/api/projects/{project}/entries",
	},
	OpGetEntry: {
		"/api/v1/projects/{project}/entries/{id}",
		"/v1/projects/{project}/entries/{id}",
		"/api/projects/{project}/entries/{id}",
	},
	OpUpdateEntry: {
		"/api/v1/projects/{project}/entries/{id}",
		"/v1/projects/{project}/entries/{id}",
		"/api/projects/{project}/entries/{id}",
	},
	OpListAssets: {
		"/api/v1/projects/{project}/assets",
		"/v1/projects/{project}/assets",
		"/api/projects/{project}/assets",
	},
	OpUploadAsset: {
		"/api/v1/projects/{project}/assets",
		"/v1/projects/{project}/assets",
		"/api/projects/{project}/assets",
	},
}

// candidateURLs expands the operation's templates against the client's base
// URL and project, and the optional record id.
func (c *Client) candidateURLs(op Operation, id string) []string {
	templates := endpointCandidates[op]
	urls := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		path := strings.ReplaceAll(tmpl, "{project}", c.project)
		path = strings.ReplaceAll(path, "{id}", id)
		urls = append(urls, strings.TrimRight(c.base, "/")+path)
	}
	return urls
}

// probe issues the real request against each candidate URL strictly in
// order and returns the body of the first success. Resolution is not cached
// across calls: every operation re-probes. Call volume is low and the path
// convention has varied per operation, so correctness wins over latency.
func (c *Client) probe(ctx context.Context, op Operation, id string, do func(ctx context.Context, url string) (*http.Response, error)) ([]byte, error) {
	urls := c.candidateURLs(op, id)

	var lastStatus int
	var lastBody string
	var lastErr error

	for _, url := range urls {
		resp, err := do(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Debug().Str("op", string(op)).Str("url", url).Err(err).Msg("endpoint candidate failed")
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return nil, errors.WrapIO("read", url, readErr)
			}
			c.log.Debug().Str("op", string(op)).Str("url", url).Int("status", resp.StatusCode).Msg("endpoint candidate accepted")
			return body, nil
		}

		lastStatus = resp.StatusCode
		lastBody = truncate(string(body), 512)
		lastErr = &errors.APIError{Op: string(op), StatusCode: resp.StatusCode, Message: lastBody}
		c.log.Debug().Str("op", string(op)).Str("url", url).Int("status", resp.StatusCode).Msg("endpoint candidate rejected")
	}

	return nil, &errors.EndpointUnreachableError{
		Op:         string(op),
		Candidates: len(urls),
		LastStatus: lastStatus,
		LastBody:   lastBody,
		Err:        lastErr,
	}
}

// truncate limits diagnostic bodies carried inside errors.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
