// Package types provides type definitions for structured data shared across the component pipeline.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileKind distinguishes files from directories in a remote listing.
type FileKind string

const (
	// FileKindFile is a regular file entry
	FileKindFile FileKind = "file"
	// FileKindDir is a directory entry
	FileKindDir FileKind = "dir"
)

// RemoteFile is one entry in a remote directory listing.
// Directory entries never carry a DownloadURL.
type RemoteFile struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Kind        FileKind `json:"type"`
	DownloadURL string   `json:"download_url,omitempty"`
	Size        int64    `json:"size,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (f RemoteFile) IsDir() bool {
	return f.Kind == FileKindDir
}

// Layout is the classification of a component source listing.
type Layout string

const (
	// LayoutStatic is a flat HTML/CSS bundle
	LayoutStatic Layout = "static"
	// LayoutFramework is a nested framework project (src/, package.json)
	LayoutFramework Layout = "framework"
	// LayoutUpload is a locally uploaded component folder
	LayoutUpload Layout = "upload"
)

// Category is the fixed component taxonomy.
type Category string

const (
	CategoryHero         Category = "Hero"
	CategoryFeatures     Category = "Features"
	CategoryPricing      Category = "Pricing"
	CategoryTestimonials Category = "Testimonials"
	CategoryFooter       Category = "Footer"
	CategoryOther        Category = "other"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{
	CategoryHero,
	CategoryFeatures,
	CategoryPricing,
	CategoryTestimonials,
	CategoryFooter,
	CategoryOther,
}

// NormalizeCategory maps free text onto the taxonomy, case-insensitively.
// Empty input yields fallback; unknown values yield CategoryOther.
func NormalizeCategory(value string, fallback Category) Category {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, c := range Categories {
		if strings.EqualFold(value, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Variable is a placeholder name with its human-readable label.
type Variable struct {
	Name  string
	Label string
}

// Variables is an insertion-ordered placeholder-name -> label mapping.
// It marshals as a JSON object whose key order follows insertion order.
type Variables []Variable

// Set adds name with label, or replaces the label if name already exists.
func (v *Variables) Set(name, label string) {
	for i := range *v {
		if (*v)[i].Name == name {
			(*v)[i].Label = label
			return
		}
	}
	*v = append(*v, Variable{Name: name, Label: label})
}

// Get returns the label for name.
func (v Variables) Get(name string) (string, bool) {
	for _, item := range v {
		if item.Name == name {
			return item.Label, true
		}
	}
	return "", false
}

// Names returns the variable names in order.
func (v Variables) Names() []string {
	names := make([]string, len(v))
	for i, item := range v {
		names[i] = item.Name
	}
	return names
}

// Map returns an unordered copy of the mapping.
func (v Variables) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, item := range v {
		m[item.Name] = item.Label
	}
	return m
}

// MarshalJSON writes the variables as an object preserving order.
func (v Variables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(item.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping document key order.
// Non-string values are kept as their raw JSON text.
func (v *Variables) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*v = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("variables must be a JSON object")
	}

	result := Variables{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("variables key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var label string
		if err := json.Unmarshal(raw, &label); err != nil {
			label = string(raw)
		}
		result.Set(key, label)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*v = result
	return nil
}

// UnmarshalYAML reads a mapping node, keeping document key order.
func (v *Variables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("variables must be a mapping (line %d)", node.Line)
	}
	result := Variables{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		result.Set(node.Content[i].Value, node.Content[i+1].Value)
	}
	*v = result
	return nil
}

// ParsedComponent is the normalized output of every parsing strategy.
type ParsedComponent struct {
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	HTML        string    `json:"html"`
	CSS         string    `json:"css"`
	Script      string    `json:"script,omitempty"` // raw behavior source; framework layouts keep the original component source here for the dynamic renderer
	Variables   Variables `json:"variables"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Layout      Layout    `json:"layout"`
}

// Template returns the html/css/variables triple that gets persisted.
func (c *ParsedComponent) Template() (string, string, Variables) {
	return c.HTML, c.CSS, c.Variables
}

// Bindings maps variable names to sample values for preview rendering.
type Bindings map[string]string

// BindingsFromLabels seeds preview bindings from variable labels.
func BindingsFromLabels(vars Variables) Bindings {
	b := make(Bindings, len(vars))
	for _, item := range vars {
		b[item.Name] = item.Label
	}
	return b
}

// ValidationResult is produced once by the structure validator before any
// file content is fetched. Valid is true exactly when Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Layout   Layout   `json:"layout"`
}

// ComponentConfig is the optional metadata file (config.json / config.yaml).
// A nil Variables means the file did not declare any.
type ComponentConfig struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Category     string     `json:"category,omitempty" yaml:"category,omitempty"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Variables    *Variables `json:"variables,omitempty" yaml:"variables,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}
