// Package store provides the YAML-backed repository record store.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/drover-cli/drover/internal/domain"
)

// Logger is the logging interface used by the store adapter.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// YAMLStore persists repository records as a single YAML document: a
// top-level mapping from repository URL to record body. The mapping
// order of the file is preserved in the loaded set, and Save writes the
// set back in the same order.
type YAMLStore struct {
	path   string
	logger Logger
}

// NewYAMLStore creates a store backed by the file at path. The file does
// not need to exist yet.
func NewYAMLStore(path string, logger Logger) *YAMLStore {
	return &YAMLStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the backing file.
func (s *YAMLStore) Path() string {
	return s.path
}

// Load reads every record from the backing file. A missing or empty file
// loads as an empty set.
func (s *YAMLStore) Load() (*domain.RecordSet, error) {
	ctx := context.Background()
	set := domain.NewRecordSet()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug(ctx, "Record store does not exist yet, starting empty", map[string]interface{}{
				"path": s.path,
			})
			return set, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrStoreIO, s.path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrStoreIO, s.path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Whitespace-only file.
		return set, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return set, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: top level must be a mapping of url to record", domain.ErrStoreIO, s.path)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]

		rec := &domain.RepositoryRecord{URL: key.Value}
		if err := val.Decode(rec); err != nil {
			return nil, fmt.Errorf("%w: %s: record %q: %v", domain.ErrStoreIO, s.path, key.Value, err)
		}
		if err := set.Upsert(rec, false); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrStoreIO, s.path, err)
		}
	}

	s.logger.Debug(ctx, "Loaded record store", map[string]interface{}{
		"path":    s.path,
		"records": set.Len(),
	})
	return set, nil
}

// Save writes the full set back in insertion order. The file is replaced
// atomically: the document is written to a temporary file next to the
// store and renamed over it.
func (s *YAMLStore) Save(set *domain.RecordSet) error {
	ctx := context.Background()

	data, err := encodeRecords(set)
	if err != nil {
		return fmt.Errorf("%w: encoding records: %v", domain.ErrStoreIO, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrStoreIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".repositories-*.yaml")
	if err != nil {
		return fmt.Errorf("%w: creating temporary file in %s: %v", domain.ErrStoreIO, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing %s: %v", domain.ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", domain.ErrStoreIO, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: setting permissions on %s: %v", domain.ErrStoreIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", domain.ErrStoreIO, s.path, err)
	}

	s.logger.Debug(ctx, "Saved record store", map[string]interface{}{
		"path":    s.path,
		"records": set.Len(),
	})
	return nil
}

// encodeRecords renders the set as a YAML mapping, one entry per record,
// keyed by URL. Nullable fields come out as explicit nulls so the stored
// document always carries the full field set.
func encodeRecords(set *domain.RecordSet) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, rec := range set.All() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rec.URL}
		val := &yaml.Node{}
		if err := val.Encode(rec); err != nil {
			return nil, fmt.Errorf("record %q: %w", rec.URL, err)
		}
		root.Content = append(root.Content, key, val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
