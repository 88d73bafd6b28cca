//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVariables_SetKeepsFirstPosition(t *testing.T) {
	var v Variables
	v.Set("title", "Title")
	v.Set("description", "Description")
	v.Set("title", "Heading")

	assert.Equal(t, []string{"title", "description"}, v.Names())
	label, ok := v.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Heading", label)

	_, ok = v.Get("missing")
	assert.False(t, ok)
}

func TestVariables_JSONPreservesOrder(t *testing.T) {
	input := `{"zeta":"Zeta","alpha":"Alpha","mid":"Mid"}`

	var v Variables
	require.NoError(t, json.Unmarshal([]byte(input), &v))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Names())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, input, string(out))
}

func TestVariables_JSONEmptyAndNull(t *testing.T) {
	var v Variables
	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.NotNil(t, v)
	assert.Len(t, v, 0)

	out, err := json.Marshal(Variables(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))

	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &v))
}

func TestVariables_NonStringValuesKeptRaw(t *testing.T) {
	var v Variables
	require.NoError(t, json.Unmarshal([]byte(`{"count":3}`), &v))
	label, _ := v.Get("count")
	assert.Equal(t, "3", label)
}

func TestVariables_YAMLPreservesOrder(t *testing.T) {
	input := "variables:\n  heading: Main heading\n  cta: Button text\n"

	var cfg ComponentConfig
	require.NoError(t, yaml.Unmarshal([]byte(input), &cfg))
	require.NotNil(t, cfg.Variables)
	assert.Equal(t, []string{"heading", "cta"}, cfg.Variables.Names())
}

func TestComponentConfig_VariablesAbsentVersusEmpty(t *testing.T) {
	var absent ComponentConfig
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hero"}`), &absent))
	assert.Nil(t, absent.Variables)

	var empty ComponentConfig
	require.NoError(t, json.Unmarshal([]byte(`{"variables":{}}`), &empty))
	require.NotNil(t, empty.Variables)
	assert.Len(t, *empty.Variables, 0)
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input    string
		fallback Category
		expected Category
	}{
		{"", CategoryOther, CategoryOther},
		{"", CategoryHero, CategoryHero},
		{"hero", CategoryOther, CategoryHero},
		{"PRICING", CategoryOther, CategoryPricing},
		{" Footer ", CategoryOther, CategoryFooter},
		{"carousel", CategoryHero, CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCategory(tt.input, tt.fallback))
		})
	}
}

func TestBindingsFromLabels(t *testing.T) {
	vars := Variables{{Name: "title", Label: "Title"}, {Name: "cta", Label: "Cta"}}
	b := BindingsFromLabels(vars)
	assert.Equal(t, Bindings{"title": "Title", "cta": "Cta"}, b)
}

func TestParsedComponent_JSONShape(t *testing.T) {
	c := ParsedComponent{
		Name:      "Untitled Component",
		Category:  CategoryOther,
		HTML:      "<div>{{title}}</div>",
		CSS:       ".x{color:red}",
		Variables: Variables{{Name: "title", Label: "Title"}},
		Layout:    LayoutStatic,
	}

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Untitled Component",
		"category": "other",
		"html": "<div>{{title}}</div>",
		"css": ".x{color:red}",
		"variables": {"title": "Title"},
		"layout": "static"
	}`, string(out))
}
