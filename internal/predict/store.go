package predict

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

const modelFilePrefix = "ensemble-"

// ModelStore persists trained ensemble models as versioned JSON files.
// Versions are immutable: saving an existing version fails.
type ModelStore struct {
	dir string
}

func NewModelStore(dir string) *ModelStore {
	return &ModelStore{dir: dir}
}

func (s *ModelStore) path(version string) string {
	return filepath.Join(s.dir, modelFilePrefix+version+".json")
}

func (s *ModelStore) Save(model *EnsembleModel) error {
	if model == nil || model.Version == "" {
		return fmt.Errorf("save model: missing version")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save model: create dir: %w", err)
	}

	path := s.path(model.Version)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("save model: version %s already exists", model.Version)
	}

	raw, err := sonic.Marshal(model)
	if err != nil {
		return fmt.Errorf("save model: encode: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("save model: write: %w", err)
	}

	return nil
}

func (s *ModelStore) Load(version string) (*EnsembleModel, error) {
	raw, err := os.ReadFile(s.path(version))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", version, err)
	}

	var model EnsembleModel
	if err := sonic.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("load model %s: decode: %w", version, err)
	}

	return &model, nil
}

// LoadLatest returns the newest stored model, or (nil, nil) when none exist.
// Timestamped versions sort lexicographically.
func (s *ModelStore) LoadLatest() (*EnsembleModel, error) {
	versions, err := s.Versions()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}

	return s.Load(versions[len(versions)-1])
}

func (s *ModelStore) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list models: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, modelFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(name, modelFilePrefix), ".json"))
	}
	sort.Strings(versions)

	return versions, nil
}
