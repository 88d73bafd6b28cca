package parsing

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonathan/framecraft/internal/types"
)

// UploadedFile is one file of a locally supplied component folder.
type UploadedFile struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// MainComponentNames are preferred, in order, when choosing the upload entry point.
var MainComponentNames = []string{"Hero.tsx", "Component.tsx", "index.tsx"}

var (
	uploadExcludedFragments = []string{"test", ".spec"}
	uploadExcludedNames     = []string{"App.tsx", "main.tsx"}
	skippedDirs             = map[string]bool{"node_modules": true, "dist": true, "build": true}
)

// MaxUploadFileSize caps the size of a single file read by LoadDirectory.
const MaxUploadFileSize = 1 << 20

// ParseUploaded builds a component from an uploaded folder. The entry component
// is converted to template markup and every stylesheet is bundled.
func ParseUploaded(files []UploadedFile) (*types.ParsedComponent, error) {
	var components, styles []UploadedFile
	var cfg *types.ComponentConfig
	for _, f := range files {
		name := uploadName(f)
		switch {
		case isUploadComponent(name):
			components = append(components, f)
		case strings.HasSuffix(strings.ToLower(name), ".css"):
			styles = append(styles, f)
		case cfg == nil && isConfigName(name):
			cfg = configFromContent(name, f.Content)
		}
	}

	if len(components) == 0 && len(styles) == 0 {
		return nil, &ParseFailure{Message: MsgNoUploadFiles}
	}
	if len(components) == 0 {
		return nil, &ParseFailure{Message: MsgNoUploadComponent}
	}

	main := chooseMainComponent(components)
	css := make([]string, len(styles))
	for i, f := range styles {
		css[i] = f.Content
	}

	component := &types.ParsedComponent{
		HTML:   Convert(main.Content),
		CSS:    strings.Join(css, "\n\n"),
		Script: main.Content,
		Layout: types.LayoutUpload,
	}
	applyMetadata(component, cfg, metadataDefaults{
		name:     baseName(uploadName(main)),
		category: types.CategoryHero,
	}, detectFromSource(main.Content))

	return component, nil
}

// LoadDirectory reads a local component folder into UploadedFiles. Hidden
// entries and dependency or build directories are skipped.
func LoadDirectory(dir string) ([]UploadedFile, error) {
	var files []UploadedFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isUploadCandidate(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > MaxUploadFileSize {
			return fmt.Errorf("%s exceeds %d bytes", p, MaxUploadFileSize)
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, UploadedFile{
			Path:    filepath.ToSlash(rel),
			Name:    d.Name(),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func uploadName(f UploadedFile) string {
	if f.Name != "" {
		return f.Name
	}
	return path.Base(f.Path)
}

// isUploadComponent matches exclusions case-sensitively, so Testimonials.tsx
// is kept while Card.test.tsx is not.
func isUploadComponent(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".tsx") && !strings.HasSuffix(lower, ".jsx") {
		return false
	}
	for _, fragment := range uploadExcludedFragments {
		if strings.Contains(name, fragment) {
			return false
		}
	}
	for _, excluded := range uploadExcludedNames {
		if strings.Contains(name, excluded) {
			return false
		}
	}
	return true
}

func isConfigName(name string) bool {
	for _, c := range ConfigFileNames {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}

func isUploadCandidate(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tsx") ||
		strings.HasSuffix(lower, ".jsx") ||
		strings.HasSuffix(lower, ".css") ||
		isConfigName(name)
}

func chooseMainComponent(components []UploadedFile) UploadedFile {
	for _, preferred := range MainComponentNames {
		for _, f := range components {
			if uploadName(f) == preferred {
				return f
			}
		}
	}
	return components[0]
}
