package notify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// flavorFile accepts either a bare YAML list or a mapping with a lines key.
type flavorFile struct {
	Lines []string `yaml:"lines"`
}

// LoadFlavor reads the flavor-text list. Blank entries are dropped.
func LoadFlavor(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flavor file: %w", err)
	}

	var lines []string
	if err := yaml.Unmarshal(data, &lines); err != nil {
		var file flavorFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse flavor file: %w", err)
		}
		lines = file.Lines
	}

	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}
