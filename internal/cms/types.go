// Package cms is the client for the remote content API. The deployed API's
// path convention and payload schema are not reliably known in advance, so
// every operation is probed against an ordered list of URL-shape candidates
// and entry updates are attempted with an ordered list of payload shapes.
package cms

import (
	"encoding/json"
	"fmt"
)

// Entry is a remote content record. The pipeline reads ID and Name for
// matching and later overwrites the record's image field; Fields carries
// whatever else the remote returned so updates can spread it back.
type Entry struct {
	ID     string
	Name   string
	Fields map[string]any
}

// Asset is a stored binary in the remote asset store, referenced by ID.
type Asset struct {
	ID       string
	Filename string
	URL      string
}

// entryFromRaw extracts an Entry from one decoded list/get item. The id may
// be under "id" or "_id"; the display name may live inside fields or at the
// top level, under "name" or "title".
func entryFromRaw(raw map[string]any) (Entry, error) {
	entry := Entry{Fields: map[string]any{}}

	entry.ID = stringField(raw, "id")
	if entry.ID == "" {
		entry.ID = stringField(raw, "_id")
	}
	if entry.ID == "" {
		return Entry{}, fmt.Errorf("entry has no id: %v", raw)
	}

	if fields, ok := raw["fields"].(map[string]any); ok {
		entry.Fields = fields
	}

	for _, candidate := range []string{
		stringField(entry.Fields, "name"),
		stringField(entry.Fields, "title"),
		stringField(raw, "name"),
		stringField(raw, "title"),
	} {
		if candidate != "" {
			entry.Name = candidate
			break
		}
	}

	return entry, nil
}

// assetFromRaw extracts an Asset from one decoded asset item.
func assetFromRaw(raw map[string]any) (Asset, error) {
	asset := Asset{
		ID:  stringField(raw, "id"),
		URL: stringField(raw, "url"),
	}
	if asset.ID == "" {
		asset.ID = stringField(raw, "_id")
	}
	if asset.ID == "" {
		return Asset{}, fmt.Errorf("asset has no id: %v", raw)
	}

	asset.Filename = stringField(raw, "filename")
	if asset.Filename == "" {
		asset.Filename = stringField(raw, "title")
	}
	return asset, nil
}

// itemsFromList unwraps a list response. The collection may be keyed by the
// resource name, by "results", or be a bare JSON array.
func itemsFromList(data []byte, keys ...string) ([]map[string]any, error) {
	var bare []map[string]any
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var wrapped map[string]any
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}

	for _, key := range append(keys, "results", "items", "data") {
		list, ok := wrapped[key].([]any)
		if !ok {
			continue
		}
		items := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items, nil
	}

	return nil, fmt.Errorf("unrecognized list response shape")
}

// stringField returns m[key] when it is a non-empty string.
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
