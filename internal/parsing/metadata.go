package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/framecraft/internal/schemas"
	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/variables"
)

// ConfigFileNames are the recognized metadata files, in priority order.
var ConfigFileNames = []string{"config.json", "config.yaml", "config.yml"}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup from free-text metadata.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}

// ParseConfig decodes a metadata file. YAML is used for .yaml/.yml names,
// JSON otherwise. The document must satisfy the component config schema.
func ParseConfig(name, content string) (*types.ComponentConfig, error) {
	if strings.TrimSpace(content) == "" {
		return &types.ComponentConfig{}, nil
	}

	isYAML := false
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		isYAML = true
	}

	var document any
	var err error
	if isYAML {
		err = yaml.Unmarshal([]byte(content), &document)
	} else {
		err = json.Unmarshal([]byte(content), &document)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if document == nil {
		return &types.ComponentConfig{}, nil
	}
	if err := schemas.ValidateComponentConfig(document); err != nil {
		return nil, fmt.Errorf("%s does not match schema: %w", name, err)
	}

	var cfg types.ComponentConfig
	if isYAML {
		err = yaml.Unmarshal([]byte(content), &cfg)
	} else {
		err = json.Unmarshal([]byte(content), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &cfg, nil
}

// loadConfig fetches and parses an optional config file. Any failure is
// logged and treated as no config.
func (p *Parser) loadConfig(ctx context.Context, file *types.RemoteFile) *types.ComponentConfig {
	if file == nil || file.DownloadURL == "" {
		return nil
	}
	content, err := p.source.FetchFileContent(ctx, file.DownloadURL)
	if err != nil {
		log.Printf("[PARSER] Failed to fetch %s, continuing without config: %v", file.Path, err)
		return nil
	}
	return configFromContent(file.Name, content)
}

func configFromContent(name, content string) *types.ComponentConfig {
	cfg, err := ParseConfig(name, content)
	if err != nil {
		log.Printf("[PARSER] Ignoring malformed config: %v", err)
		return nil
	}
	return cfg
}

// metadataDefaults are the per-strategy fallbacks applied when config is silent.
type metadataDefaults struct {
	name        string
	category    types.Category
	description string
}

// applyMetadata fills name, category, description, thumbnail and variables.
// detect is only called when the config declares no variables.
func applyMetadata(component *types.ParsedComponent, cfg *types.ComponentConfig, defaults metadataDefaults, detect func() types.Variables) {
	if cfg == nil {
		cfg = &types.ComponentConfig{}
	}

	component.Name = sanitizeText(cfg.Name)
	if component.Name == "" {
		component.Name = defaults.name
	}
	component.Category = types.NormalizeCategory(cfg.Category, defaults.category)
	component.Description = sanitizeText(cfg.Description)
	if component.Description == "" {
		component.Description = defaults.description
	}
	if cfg.Thumbnail != "" {
		component.Thumbnail = cfg.Thumbnail
	}

	if cfg.Variables != nil && len(*cfg.Variables) > 0 {
		component.Variables = append(types.Variables{}, (*cfg.Variables)...)
		return
	}
	component.Variables = detect()
}

// detectFromHTML returns a detector over html for applyMetadata.
func detectFromHTML(html string) func() types.Variables {
	return func() types.Variables { return variables.Detect(html) }
}

// detectFromSource returns a framework-source detector for applyMetadata.
func detectFromSource(source string) func() types.Variables {
	return func() types.Variables { return variables.DetectSource(source) }
}
