package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/framecraft/internal/types"
)

func TestParseConfig(t *testing.T) {
	t.Run("json keeps variable order", func(t *testing.T) {
		cfg, err := ParseConfig("config.json", `{"name":"Stats","variables":{"zeta":"Z","alpha":"A","count":3}}`)
		require.NoError(t, err)
		assert.Equal(t, "Stats", cfg.Name)
		require.NotNil(t, cfg.Variables)
		assert.Equal(t, []string{"zeta", "alpha", "count"}, cfg.Variables.Names())
		label, _ := cfg.Variables.Get("count")
		assert.Equal(t, "3", label)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := ParseConfig("config.yml", "name: Footer links\ncategory: footer\nvariables:\n  copyright: Copyright line\n")
		require.NoError(t, err)
		assert.Equal(t, "Footer links", cfg.Name)
		assert.Equal(t, "footer", cfg.Category)
		assert.Equal(t, types.Variables{{Name: "copyright", Label: "Copyright line"}}, *cfg.Variables)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := ParseConfig("config.json", "  ")
		require.NoError(t, err)
		assert.Nil(t, cfg.Variables)
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := ParseConfig("config.json", `{"name": 42}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match schema")
	})

	t.Run("placeholder braces in variable names", func(t *testing.T) {
		_, err := ParseConfig("config.json", `{"variables":{"{{title}}":"Title"}}`)
		assert.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := ParseConfig("config.yaml", "name: [unclosed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode config.yaml")
	})
}

func TestApplyMetadata(t *testing.T) {
	detected := false
	detect := func() types.Variables {
		detected = true
		return types.Variables{{Name: "title", Label: "Title"}}
	}

	component := &types.ParsedComponent{}
	applyMetadata(component, &types.ComponentConfig{
		Name:        "  <i>Quotes</i> ",
		Category:    "Carousel",
		Description: "<script>alert(1)</script>Rotating quotes",
		Thumbnail:   "https://example.com/t.png",
	}, metadataDefaults{name: "fallback", category: types.CategoryHero}, detect)

	assert.Equal(t, "Quotes", component.Name)
	// unknown categories collapse to other
	assert.Equal(t, types.CategoryOther, component.Category)
	assert.Equal(t, "Rotating quotes", component.Description)
	assert.Equal(t, "https://example.com/t.png", component.Thumbnail)
	assert.True(t, detected)
	assert.Equal(t, types.Variables{{Name: "title", Label: "Title"}}, component.Variables)
}
