package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
)

// LoadRecord reads one metadata record from a local path or an HTTP(S) URL.
// Records may be written in YAML or in JSON with comments and trailing
// commas. The document is validated against the embedded metadata schema
// before decoding.
func LoadRecord(ctx context.Context, fetcher fetch.Fetcher, location string) (*Record, error) {
	data, name, err := readLocation(ctx, fetcher, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", location, err)
	}

	doc, err := toJSON(data, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", location, err)
	}

	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid metadata %s: %w", location, err)
	}

	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", location, err)
	}
	return &rec, nil
}

// LoadRecords loads every location in order, failing on the first error.
func LoadRecords(ctx context.Context, fetcher fetch.Fetcher, locations []string) ([]*Record, error) {
	records := make([]*Record, 0, len(locations))
	for _, location := range locations {
		rec, err := LoadRecord(ctx, fetcher, location)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// readLocation returns the raw bytes of a record plus the file name used to
// pick the decoder.
func readLocation(ctx context.Context, fetcher fetch.Fetcher, location string) ([]byte, string, error) {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err := fetcher.Fetch(ctx, location)
		if err != nil {
			return nil, "", err
		}
		return data, path.Base(u.Path), nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(location), nil
}

// toJSON normalizes a record document to plain JSON. The extension decides
// the decoder; files without one are treated as YAML.
func toJSON(data []byte, name string) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, err
		}
		return std, nil
	case ".yml", ".yaml", "":
		return sigsyaml.YAMLToJSON(data)
	default:
		return nil, fmt.Errorf("unsupported metadata file extension %q (expected .yml, .yaml, or .json)", ext)
	}
}
