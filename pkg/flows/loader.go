package flows

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/*
var embeddedDefinitions embed.FS

// EmbeddedFS returns the bundled flow definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default loads the bundled definitions.
func Default() (*Store, error) {
	return LoadFS(EmbeddedFS())
}

// LoadFS walks fsys and parses every JSON/YAML flow document. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{flows: make(map[string]Flow)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFlowFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("flows: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, flow := range doc.Flows {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("flows: file %s defines an empty flow id", path)
			}
			if _, exists := store.flows[id]; exists {
				return fmt.Errorf("flows: duplicate flow %q (file %s)", id, path)
			}
			normalised, err := normaliseFlow(flow, id, path)
			if err != nil {
				return err
			}
			store.flows[id] = normalised
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Flow returns the flow registered under id.
func (s *Store) Flow(id string) (Flow, bool) {
	if s == nil {
		return Flow{}, false
	}
	flow, ok := s.flows[id]
	return flow, ok
}

// IDs lists the registered flows, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.flows))
	for id := range s.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type documentFile struct {
	Flows map[string]Flow `json:"flows" yaml:"flows"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("flows: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("flows: parse %s: invalid JSON or YAML", source)
}

func normaliseFlow(raw Flow, id, source string) (Flow, error) {
	flow := raw
	flow.ID = id
	flow.Source = source
	if len(raw.Steps) == 0 {
		return Flow{}, fmt.Errorf("flows: flow %q (file %s) has no steps", id, source)
	}

	flow.Steps = make([]StepConfig, len(raw.Steps))
	seen := make(map[string]struct{}, len(raw.Steps))
	for idx, step := range raw.Steps {
		step.ID = strings.TrimSpace(step.ID)
		if step.ID == "" {
			return Flow{}, fmt.Errorf("flows: flow %q (file %s) step %d has no id", id, source, idx)
		}
		if _, dup := seen[step.ID]; dup {
			return Flow{}, fmt.Errorf("flows: flow %q (file %s) defines duplicate step %q", id, source, step.ID)
		}
		seen[step.ID] = struct{}{}
		if strings.TrimSpace(step.Operation) == "" {
			return Flow{}, fmt.Errorf("flows: flow %q (file %s) step %q has no operation", id, source, step.ID)
		}
		if step.Title == "" {
			step.Title = step.ID
		}
		step.Fields = append([]string(nil), step.Fields...)
		flow.Steps[idx] = step
	}
	return flow, nil
}

func isFlowFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
