package workspace

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultSet struct {
	Selected string `yaml:"selected"`
	Files    []struct {
		Name    string `yaml:"name"`
		Content string `yaml:"content"`
	} `yaml:"files"`
}

// defaults returns the built-in files of a new workspace and the file to
// select.
func defaults() (map[string]string, string, error) {
	var d defaultSet
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return nil, "", fmt.Errorf("failed to parse defaults.yaml: %w", err)
	}
	files := make(map[string]string, len(d.Files))
	for _, f := range d.Files {
		if err := ValidateName(f.Name); err != nil {
			return nil, "", fmt.Errorf("defaults.yaml: %w", err)
		}
		files[f.Name] = f.Content
	}
	return files, d.Selected, nil
}
