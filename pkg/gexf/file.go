package gexf

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

const filePermissions = 0644

// Compressed reports whether path selects the snappy-compressed encoding.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".sz")
}

// Save writes store to path, replacing any existing file atomically. Paths
// ending in .sz are snappy-compressed.
func Save(store *graph.Store, path string, meta Meta) error {
	var buf bytes.Buffer
	if err := Encode(&buf, store, meta); err != nil {
		return graph.NewError("save").File(path).Cause(err).Err()
	}

	data := buf.Bytes()
	if Compressed(path) {
		data = snappy.Encode(nil, data)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return graph.NewError("save").File(path).Cause(err).Err()
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return graph.NewError("save").File(path).Context("write temp file").Cause(err).Err()
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return graph.NewError("save").File(path).Context("rename").Cause(err).Err()
	}
	return nil
}

// Load reads a graph written by Save, or any GEXF document carrying
// category and relation attributes.
func Load(path string) (*graph.Store, Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Meta{}, graph.NewError("load").File(path).Cause(graph.ErrFileNotFound).Err()
		}
		return nil, Meta{}, graph.CorruptFileError(path, err)
	}

	if Compressed(path) {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, Meta{}, graph.CorruptFileError(path, err)
		}
	}

	store, meta, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Meta{}, graph.NewError("load").File(path).Cause(err).Err()
	}
	return store, meta, nil
}
