package vocab

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Definition represents the structure of a vocabulary YAML file.
type Definition struct {
	Items           []string `yaml:"items"`
	Statuses        []string `yaml:"statuses"`
	Particles       []string `yaml:"particles"`
	Sounds          []string `yaml:"sounds"`
	SoundCategories []string `yaml:"sound_categories"`
	Entities        []string `yaml:"entities"`
}

// Merge appends every name from other.
func (d *Definition) Merge(other *Definition) {
	d.Items = append(d.Items, other.Items...)
	d.Statuses = append(d.Statuses, other.Statuses...)
	d.Particles = append(d.Particles, other.Particles...)
	d.Sounds = append(d.Sounds, other.Sounds...)
	d.SoundCategories = append(d.SoundCategories, other.SoundCategories...)
	d.Entities = append(d.Entities, other.Entities...)
}

// ParseDefinition decodes a vocabulary document.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary YAML: %w", err)
	}
	return &def, nil
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	def, err := ParseDefinition(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("vocab: embedded default is invalid: %v", err))
	}
	return FromDefinition(def)
}

// LoadFromYAML loads the built-in vocabulary extended with the names in filename.
// An empty filename returns the built-in vocabulary alone.
func LoadFromYAML(filename string) (*Vocabulary, error) {
	base, err := ParseDefinition(defaultYAML)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return FromDefinition(base), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	extra, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}

	base.Merge(extra)
	return FromDefinition(base), nil
}
