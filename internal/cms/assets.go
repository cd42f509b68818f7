package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/hyggehome/imagesync/pkg/errors"
)

// ListAssets returns the remote asset descriptors. Like entry listing this
// consumes a single page.
func (c *Client) ListAssets(ctx context.Context) ([]Asset, error) {
	body, err := c.probe(ctx, OpListAssets, "", func(ctx context.Context, candidate string) (*http.Response, error) {
		return c.get(ctx, candidate, nil)
	})
	if err != nil {
		return nil, err
	}

	items, err := itemsFromList(body, "assets")
	if err != nil {
		return nil, errors.WrapParse("json", "assets response", err)
	}

	assets := make([]Asset, 0, len(items))
	for _, item := range items {
		asset, err := assetFromRaw(item)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping asset without id")
			continue
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// UploadAsset uploads the file at path as a new binary asset named filename
// and returns the stored asset. The multipart body is rebuilt per endpoint
// candidate because a consumed reader cannot be replayed.
func (c *Client) UploadAsset(ctx context.Context, path, filename string) (Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, errors.WrapIO("read", path, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Asset{}, errors.WrapIO("write", "multipart body", err)
	}
	if _, err := part.Write(data); err != nil {
		return Asset{}, errors.WrapIO("write", "multipart body", err)
	}
	if err := writer.WriteField("title", filename); err != nil {
		return Asset{}, errors.WrapIO("write", "multipart body", err)
	}
	if err := writer.Close(); err != nil {
		return Asset{}, errors.WrapIO("write", "multipart body", err)
	}
	payload := buf.Bytes()
	contentType := writer.FormDataContentType()

	body, err := c.probe(ctx, OpUploadAsset, "", func(ctx context.Context, candidate string) (*http.Response, error) {
		req, err := c.newRequest(ctx, http.MethodPost, candidate, bytes.NewReader(payload), contentType)
		if err != nil {
			return nil, err
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return Asset{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Asset{}, errors.WrapParse("json", "upload response", err)
	}
	if nested, ok := raw["asset"].(map[string]any); ok {
		raw = nested
	}

	asset, err := assetFromRaw(raw)
	if err != nil {
		return Asset{}, fmt.Errorf("upload response: %w", err)
	}
	if asset.Filename == "" {
		asset.Filename = filename
	}
	return asset, nil
}
