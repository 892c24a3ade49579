// Package loader reads finalized syntax-tree documents produced by an
// external parsing front end and validates them before resolution.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"sbr-suite/pkg/model"
)

var validate = validator.New()

// Parse decodes and validates one unit document.
func Parse(data []byte) (*model.Unit, error) {
	var unit model.Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decode unit document: %w", err)
	}
	if err := Check(&unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Check validates a unit that was built in memory: required fields, node
// kind spellings, and node-id uniqueness within the tree.
func Check(unit *model.Unit) error {
	if unit == nil {
		return fmt.Errorf("unit is nil")
	}
	if err := validate.Struct(unit); err != nil {
		return fmt.Errorf("validate unit %s: %w", unit.Name, err)
	}
	if dups := unit.DuplicateIDs(); len(dups) > 0 {
		return fmt.Errorf("unit %s: node id %s is not unique", unit.Name, dups[0])
	}
	return nil
}

// Load reads one unit document from disk. A document without a unit name
// takes the file's base name.
func Load(path string) (*model.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var unit model.Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if strings.TrimSpace(unit.Name) == "" {
		unit.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := Check(&unit); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &unit, nil
}

// LoadDir reads every *.json document directly under dir, sorted by file
// name so callers see deterministic unit order.
func LoadDir(dir string) ([]*model.Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no unit documents in %s", dir)
	}

	units := make([]*model.Unit, 0, len(paths))
	for _, path := range paths {
		unit, err := Load(path)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// LoadPath loads a single document or a directory of documents.
func LoadPath(target string) ([]*model.Unit, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(target)
	}
	unit, err := Load(target)
	if err != nil {
		return nil, err
	}
	return []*model.Unit{unit}, nil
}
