package lexicon

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoManifest is returned when a lexicon directory has no manifest.yaml.
var ErrNoManifest = errors.New("lexicon: no manifest.yaml")

// Lexicon methods.
const (
	MethodList    = "list"
	MethodPattern = "pattern"
)

// Manifest describes a lexicon: its source, format, and how to interpret it.
type Manifest struct {
	ID           string           `yaml:"id" json:"id"`
	Version      string           `yaml:"version" json:"version"`
	Source       string           `yaml:"source" json:"source"`
	SourceURL    string           `yaml:"source_url" json:"source_url,omitempty"`
	License      string           `yaml:"license" json:"license"`
	DataFile     string           `yaml:"data_file" json:"data_file"`
	Method       string           `yaml:"method" json:"method,omitempty"`
	Format       FormatSpec       `yaml:"format" json:"-"`
	MetadataCols []MetadataColumn `yaml:"metadata_columns" json:"-"`
	Patterns     []PatternSpec    `yaml:"patterns" json:"patterns,omitempty"`
}

// PatternSpec maps a regex over the canonical form to an article.
type PatternSpec struct {
	Name   string `yaml:"name" json:"name"`
	Regex  string `yaml:"regex" json:"regex"`
	Gender string `yaml:"gender" json:"gender"`
}

// FormatSpec describes the CSV layout.
type FormatSpec struct {
	Delimiter    string `yaml:"delimiter"`
	Encoding     string `yaml:"encoding"`
	HasHeader    bool   `yaml:"has_header"`
	KeyColumn    string `yaml:"key_column"`
	GenderColumn string `yaml:"gender_column"`
}

// MetadataColumn maps a logical name to a CSV column.
type MetadataColumn struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	switch m.Method {
	case "":
		m.Method = MethodList
	case MethodList, MethodPattern:
	default:
		return nil, fmt.Errorf("manifest %s: unknown method %q", path, m.Method)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	return &m, nil
}
