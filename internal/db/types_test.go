package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/framecraft/internal/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hero Banner", "hero-banner"},
		{"Hero Banner #2", "hero-banner-2"},
		{"  Pricing -- Table  ", "pricing-table"},
		{"Untitled Component", "untitled-component"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestFetchStatusFromHTTP(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{200, FetchStatusSuccess},
		{204, FetchStatusSuccess},
		{404, FetchStatusNotFound},
		{410, FetchStatusNotFound},
		{403, FetchStatusBlocked},
		{429, FetchStatusBlocked},
		{500, FetchStatusError},
		{0, FetchStatusError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FetchStatusFromHTTP(tt.status), "status %d", tt.status)
	}
}

func TestHashContent(t *testing.T) {
	hash1 := HashContent("hello world")
	hash2 := HashContent("hello world")
	assert.Equal(t, hash1, hash2)
	assert.NotEqual(t, hash1, HashContent("different content"))
	assert.Len(t, hash1, 64)
}

func TestCachedFile_IsFresh(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		file     CachedFile
		maxAge   time.Duration
		expected bool
	}{
		{"recent, no expiry", CachedFile{FetchedAt: time.Now()}, time.Hour, true},
		{"too old", CachedFile{FetchedAt: time.Now().Add(-2 * time.Hour)}, time.Hour, false},
		{"explicitly expired", CachedFile{FetchedAt: time.Now(), ExpiresAt: &past}, time.Hour, false},
		{"expires later", CachedFile{FetchedAt: time.Now(), ExpiresAt: &future}, time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.file.IsFresh(tt.maxAge))
		})
	}
}

func TestTemplateFromComponent(t *testing.T) {
	c := &types.ParsedComponent{
		Name:      "Hero Banner",
		Category:  types.CategoryHero,
		HTML:      "<h1>{{title}}</h1>",
		CSS:       "h1{margin:0}",
		Script:    "export function Hero() {}",
		Variables: types.Variables{{Name: "title", Label: "Title"}},
	}

	tmpl := TemplateFromComponent(c)
	assert.Equal(t, "hero-banner", tmpl.Slug)
	assert.Equal(t, "Hero", tmpl.Category)
	assert.Nil(t, tmpl.Description)
	assert.Nil(t, tmpl.ThumbnailURL)
	require.NotNil(t, tmpl.JSTemplate)
	assert.Equal(t, c.Script, *tmpl.JSTemplate)
	assert.Equal(t, c.Variables, tmpl.EditableFields)
}

func TestComponentTemplate_JSON(t *testing.T) {
	tmpl := ComponentTemplate{
		Name:           "Card",
		Slug:           "card",
		Category:       "other",
		HTMLTemplate:   "<div>{{b}}{{a}}</div>",
		EditableFields: types.Variables{{Name: "b", Label: "B"}, {Name: "a", Label: "A"}},
		Tags:           []string{},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"editable_fields":{"b":"B","a":"A"}`)
}

func TestSchema_DeclaresTables(t *testing.T) {
	schema := Schema()
	assert.Contains(t, schema, "component_templates")
	assert.Contains(t, schema, "file_cache")
	assert.Regexp(t, `slug\s+TEXT NOT NULL UNIQUE`, schema)
}
