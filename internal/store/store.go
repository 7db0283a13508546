// Package store reads item lists and reads and writes result documents.
// Files ending in .yaml or .yml are YAML; everything else is JSON.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/aryankumar/chunkrun/internal/util"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// Results is the result document the CLI reads and writes
type Results = batch.BatchResults[any, any]

// IsYAML reports whether path is treated as a YAML document
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func readFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, util.WrapDocumentError(path, util.ErrNotFound)
		}
		return nil, util.WrapDocumentError(path, err)
	}
	return data, nil
}

func decode(path string, data []byte, v any) error {
	var err error
	if IsYAML(path) {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return util.WrapDocumentError(path, fmt.Errorf("%w: %v", util.ErrInvalidDocument, err))
	}
	return nil
}

// LoadItems parses a list of items. A document that is not a list is
// reported as an invalid document.
func LoadItems(fsys afero.Fs, path string) ([]any, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := decode(path, data, &doc); err != nil {
		return nil, err
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, util.WrapDocumentError(path, fmt.Errorf("%w: items must be a list, got %s", util.ErrInvalidDocument, kind(doc)))
	}
	return items, nil
}

func kind(doc any) string {
	switch doc.(type) {
	case nil:
		return "an empty document"
	case map[string]any:
		return "a mapping"
	default:
		return "a scalar"
	}
}

// SaveResults writes a result document, creating parent folders
func SaveResults(fsys afero.Fs, path string, results Results) error {
	var (
		data []byte
		err  error
	)
	if IsYAML(path) {
		data, err = yaml.Marshal(results)
	} else {
		data, err = json.MarshalIndent(results, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return util.WrapErrorf(err, "failed to encode results")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return util.WrapErrorf(err, "failed to create %s", dir)
		}
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return util.WrapDocumentError(path, err)
	}
	return nil
}

// LoadResults reads a result document written by SaveResults
func LoadResults(fsys afero.Fs, path string) (Results, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return Results{}, err
	}

	var results Results
	if err := decode(path, data, &results); err != nil {
		return Results{}, err
	}

	if results.Success == nil {
		results.Success = []batch.ChunkGroup[any, any]{}
	}
	if results.Failed == nil {
		results.Failed = []batch.ChunkGroup[any, any]{}
	}
	if results.Unsent == nil {
		results.Unsent = []batch.ChunkGroup[any, any]{}
	}
	return results, nil
}

// LoadAllResults reads several result documents in order, collecting every failure
func LoadAllResults(fsys afero.Fs, paths []string) ([]Results, error) {
	all := make([]Results, 0, len(paths))
	errs := &util.MultiError{}

	for _, p := range paths {
		r, err := LoadResults(fsys, p)
		if err != nil {
			errs.Add(err)
			continue
		}
		all = append(all, r)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return all, nil
}
