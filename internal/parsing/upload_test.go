package parsing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/framecraft/internal/types"
)

const cardSource = `export function Card({ heading, text }) {
  return (
    <article className="card">
      <h3>{heading}</h3>
      <p>{text}</p>
    </article>
  );
}`

func TestParseUploaded(t *testing.T) {
	files := []UploadedFile{
		{Path: "Card.tsx", Name: "Card.tsx", Content: cardSource},
		{Path: "Card.test.tsx", Name: "Card.test.tsx", Content: "test()"},
		{Path: "App.tsx", Name: "App.tsx", Content: "app"},
		{Path: "styles/base.css", Name: "base.css", Content: "body{}"},
		{Path: "styles/card.css", Name: "card.css", Content: ".card{}"},
		{Path: "README.md", Name: "README.md", Content: "docs"},
	}

	component, err := ParseUploaded(files)
	require.NoError(t, err)

	assert.Equal(t, "Card", component.Name)
	assert.Equal(t, types.CategoryHero, component.Category)
	assert.Equal(t, types.LayoutUpload, component.Layout)
	assert.Equal(t, "body{}\n\n.card{}", component.CSS)
	assert.Equal(t, `<article class="card"> <h3>{{heading}}</h3> <p>{{text}}</p> </article>`, component.HTML)
	assert.Equal(t, cardSource, component.Script)
	assert.Equal(t, types.Variables{
		{Name: "heading", Label: "Heading"},
		{Name: "text", Label: "Text"},
	}, component.Variables)
}

func TestParseUploaded_KeepsTestimonials(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected string
	}{
		{"testimonials", "Testimonials.tsx", "Testimonials"},
		{"testimonials section", "TestimonialsSection.jsx", "TestimonialsSection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			component, err := ParseUploaded([]UploadedFile{
				{Name: tt.file, Content: cardSource},
				{Name: "Testimonials.test.tsx", Content: "test()"},
				{Name: "styles.css", Content: ".card{}"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, component.Name)
			assert.Equal(t, ".card{}", component.CSS)
		})
	}
}

func TestParseUploaded_MainComponentPriority(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
	}{
		{"hero wins", []string{"index.tsx", "Component.tsx", "Hero.tsx"}, "Hero"},
		{"component over index", []string{"index.tsx", "Component.tsx"}, "Component"},
		{"index over others", []string{"Banner.jsx", "index.tsx"}, "index"},
		{"first otherwise", []string{"Banner.jsx", "Footer.tsx"}, "Banner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []UploadedFile
			for _, name := range tt.files {
				files = append(files, UploadedFile{Path: "src/" + name, Content: "function X() { return (<div>x</div>); }"})
			}
			component, err := ParseUploaded(files)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, component.Name)
		})
	}
}

func TestParseUploaded_Config(t *testing.T) {
	files := []UploadedFile{
		{Name: "Hero.tsx", Content: cardSource},
		{Name: "config.json", Content: `{"name":"Promo card","category":"Footer","variables":{"headline":"Headline"}}`},
	}
	component, err := ParseUploaded(files)
	require.NoError(t, err)
	assert.Equal(t, "Promo card", component.Name)
	assert.Equal(t, types.CategoryFooter, component.Category)
	assert.Equal(t, types.Variables{{Name: "headline", Label: "Headline"}}, component.Variables)
	assert.Empty(t, component.CSS)
}

func TestParseUploaded_Failures(t *testing.T) {
	tests := []struct {
		name     string
		files    []UploadedFile
		expected string
	}{
		{"nothing eligible", []UploadedFile{{Name: "notes.md"}, {Name: "main.tsx"}}, MsgNoUploadFiles},
		{"css only", []UploadedFile{{Name: "a.css", Content: "a{}"}, {Name: "Hero.spec.tsx"}}, MsgNoUploadComponent},
		{"empty", nil, MsgNoUploadFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUploaded(tt.files)
			var failure *ParseFailure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.expected, failure.Message)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("Hero.tsx", cardSource)
	write("styles/hero.css", ".hero{}")
	write("config.json", `{"name":"Hero"}`)
	write("notes.txt", "ignored")
	write("node_modules/pkg/index.jsx", "ignored")
	write(".cache/x.css", "ignored")

	files, err := LoadDirectory(dir)
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.ElementsMatch(t, []string{"Hero.tsx", "styles/hero.css", "config.json"}, paths)

	component, err := ParseUploaded(files)
	require.NoError(t, err)
	assert.Equal(t, "Hero", component.Name)
	assert.Equal(t, ".hero{}", component.CSS)
}

func TestLoadDirectory_Missing(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
