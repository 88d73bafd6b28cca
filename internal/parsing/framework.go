package parsing

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/validation"
)

// ComponentDirCandidates are searched in order, relative to the base path.
var ComponentDirCandidates = []string{
	"src/app/components",
	"src/components",
	"src/app",
	"src",
}

// StylesDirName is the conventional stylesheet directory inside src/.
const StylesDirName = "styles"

// DefaultStylesheet is used when a framework project ships no CSS.
const DefaultStylesheet = `/* No CSS files found - using defaults */
* { box-sizing: border-box; }
body { margin: 0; padding: 0; }`

var (
	componentExtensions = []string{".tsx", ".jsx"}
	barrelNames         = []string{"index.tsx", "index.jsx"}
	excludedSubpaths    = []string{"/ui/", "/figma/"}
)

// parseFramework handles a nested project. Directory probing is sequential:
// each candidate is listed only if the previous one produced nothing.
func (p *Parser) parseFramework(ctx context.Context, basePath string, rootFiles []types.RemoteFile) (*types.ParsedComponent, error) {
	srcPath := JoinPath(basePath, validation.SourceDirName)
	srcFiles, err := p.source.ListDirectory(ctx, srcPath)
	if err != nil {
		return nil, &ParseFailure{Message: "failed to list " + srcPath, Cause: err}
	}

	componentFile, err := p.findComponentFile(ctx, basePath)
	if err != nil {
		return nil, err
	}

	source, err := p.source.FetchFileContent(ctx, componentFile.DownloadURL)
	if err != nil {
		return nil, &ParseFailure{Message: "failed to fetch " + componentFile.Path, Cause: err}
	}

	css := p.loadStyles(ctx, srcFiles)
	cfg := p.loadConfig(ctx, configRule.pick(rootFiles))

	name := baseName(componentFile.Name)
	component := &types.ParsedComponent{
		HTML:   Convert(source),
		CSS:    css,
		Script: source,
		Layout: types.LayoutFramework,
	}
	applyMetadata(component, cfg, metadataDefaults{
		name:     name,
		category: types.CategoryHero,
	}, detectFromSource(source))
	if component.Description == "" {
		component.Description = "Framework component: " + component.Name
	}

	return component, nil
}

// findComponentFile walks ComponentDirCandidates and returns the first usable
// component file. Listing errors skip to the next candidate.
func (p *Parser) findComponentFile(ctx context.Context, basePath string) (*types.RemoteFile, error) {
	for _, candidate := range ComponentDirCandidates {
		dir := JoinPath(basePath, candidate)
		files, err := p.source.ListDirectory(ctx, dir)
		if err != nil {
			log.Printf("[PARSER] Skipping %s: %v", dir, err)
			continue
		}
		if file := ChooseComponentFile(files); file != nil && file.DownloadURL != "" {
			return file, nil
		}
	}
	return nil, &ParseFailure{Message: MsgNoComponentFile}
}

// ChooseComponentFile prefers a .tsx/.jsx file that is not a barrel index and
// not under a ui/ or figma/ subpath, falling back to index.tsx / index.jsx.
func ChooseComponentFile(files []types.RemoteFile) *types.RemoteFile {
	for i := range files {
		f := &files[i]
		if !isComponentFile(f) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(f.Name), "index") || isExcludedPath(f.Path) {
			continue
		}
		return f
	}
	for i := range files {
		f := &files[i]
		if f.IsDir() {
			continue
		}
		for _, barrel := range barrelNames {
			if strings.EqualFold(f.Name, barrel) {
				return f
			}
		}
	}
	return nil
}

func isComponentFile(f *types.RemoteFile) bool {
	if f.IsDir() {
		return false
	}
	name := strings.ToLower(f.Name)
	for _, ext := range componentExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func isExcludedPath(p string) bool {
	p = "/" + strings.ToLower(p)
	for _, sub := range excludedSubpaths {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}

// loadStyles concatenates every CSS file of src/styles in listing order.
// Any failure falls back to DefaultStylesheet.
func (p *Parser) loadStyles(ctx context.Context, srcFiles []types.RemoteFile) string {
	var stylesDir *types.RemoteFile
	for i := range srcFiles {
		if srcFiles[i].IsDir() && strings.EqualFold(srcFiles[i].Name, StylesDirName) {
			stylesDir = &srcFiles[i]
			break
		}
	}
	if stylesDir == nil {
		return DefaultStylesheet
	}

	files, err := p.source.ListDirectory(ctx, stylesDir.Path)
	if err != nil {
		log.Printf("[PARSER] Failed to list %s, using default styles: %v", stylesDir.Path, err)
		return DefaultStylesheet
	}

	var cssFiles []types.RemoteFile
	for _, f := range files {
		if !f.IsDir() && f.DownloadURL != "" && strings.HasSuffix(strings.ToLower(f.Name), ".css") {
			cssFiles = append(cssFiles, f)
		}
	}
	if len(cssFiles) == 0 {
		return DefaultStylesheet
	}

	contents := make([]string, len(cssFiles))
	var g errgroup.Group
	for i, f := range cssFiles {
		g.Go(func() error {
			content, err := p.source.FetchFileContent(ctx, f.DownloadURL)
			if err != nil {
				return err
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[PARSER] Failed to fetch styles, using defaults: %v", err)
		return DefaultStylesheet
	}
	return strings.Join(contents, "\n\n")
}
