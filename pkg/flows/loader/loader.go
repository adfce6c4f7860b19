// Package loader parses flow documents from JSON or YAML sources and feeds
// them into a flows.Registry.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-questflow/pkg/flows"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// documentFile is the on-disk shape: either a single flow or a `flows` list.
type documentFile struct {
	Flows              []questionnaire.Flow `json:"flows" yaml:"flows"`
	questionnaire.Flow `yaml:",inline"`
}

// Parse decodes one document. JSON is attempted first, then YAML, matching
// how the rest of the toolchain treats schema files.
func Parse(data []byte, source string) ([]questionnaire.Flow, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("flows/loader: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("flows/loader: parse %s: invalid JSON or YAML", source)
		}
	}

	if len(doc.Flows) > 0 {
		return doc.Flows, nil
	}
	if doc.Flow.ID == "" {
		return nil, fmt.Errorf("flows/loader: file %s defines no flows", source)
	}
	return []questionnaire.Flow{doc.Flow}, nil
}

// LoadFile reads and parses a single flow document from disk.
func LoadFile(path string) ([]questionnaire.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flows/loader: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and registers every flow document it finds. Registration
// errors (duplicates, dangling references) abort the walk so a broken
// document set never half-loads.
func LoadFS(fsys fs.FS, registry *flows.Registry) error {
	if fsys == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFlowFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("flows/loader: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, flow := range parsed {
			if err := registry.Register(flow); err != nil {
				return fmt.Errorf("flows/loader: file %s: %w", path, err)
			}
		}
		return nil
	})
}

func isFlowFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
