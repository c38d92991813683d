package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a YAML-declared seeding profile, so demo environments can pin
// their data shape in a checked-in file instead of command-line flags.
type Preset struct {
	Users    int      `yaml:"users"`
	Articles int      `yaml:"articles"`
	Clean    bool     `yaml:"clean"`
	Tags     []string `yaml:"tags"`
}

// LoadPreset reads a seeding profile from the given YAML file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}
	return &preset, nil
}

// Options converts the preset into seeding options.
func (p *Preset) Options() Options {
	return Options{
		NumUsers:    p.Users,
		NumArticles: p.Articles,
		ShouldClean: p.Clean,
		Tags:        p.Tags,
	}
}
