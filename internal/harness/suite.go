package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScenarioPaths resolves path to scenario files. A file is returned as is;
// a directory yields its *.yaml and *.yml files sorted by name.
func ScenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadScenarios loads every scenario under path.
func LoadScenarios(path string) ([]*Scenario, error) {
	paths, err := ScenarioPaths(path)
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
