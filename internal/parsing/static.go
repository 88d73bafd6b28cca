package parsing

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/framecraft/internal/types"
)

// Static layout defaults.
const (
	DefaultStaticName = "Untitled Component"
)

// fileRule selects a file: exact names first (in order), then the first file
// with one of the suffixes.
type fileRule struct {
	names    []string
	suffixes []string
}

var (
	htmlRule      = fileRule{names: []string{"index.html", "component.html"}, suffixes: []string{".html"}}
	cssRule       = fileRule{names: []string{"style.css", "styles.css"}, suffixes: []string{".css"}}
	scriptRule    = fileRule{names: []string{"script.js", "index.js"}, suffixes: []string{".js"}}
	configRule    = fileRule{names: ConfigFileNames}
	thumbnailRule = fileRule{names: []string{"thumbnail.png", "preview.png"}, suffixes: []string{".png", ".jpg", ".jpeg"}}
)

func (r fileRule) pick(files []types.RemoteFile) *types.RemoteFile {
	for _, name := range r.names {
		for i := range files {
			if !files[i].IsDir() && strings.EqualFold(files[i].Name, name) {
				return &files[i]
			}
		}
	}
	for _, suffix := range r.suffixes {
		for i := range files {
			if !files[i].IsDir() && strings.HasSuffix(strings.ToLower(files[i].Name), suffix) {
				return &files[i]
			}
		}
	}
	return nil
}

// parseStatic handles a flat HTML/CSS bundle. HTML, CSS, script and config
// are fetched concurrently; only HTML and CSS failures fail the parse.
func (p *Parser) parseStatic(ctx context.Context, files []types.RemoteFile) (*types.ParsedComponent, error) {
	htmlFile := htmlRule.pick(files)
	cssFile := cssRule.pick(files)
	if htmlFile == nil || cssFile == nil {
		return nil, &ParseFailure{Message: MsgMissingRequiredFiles}
	}
	if htmlFile.DownloadURL == "" || cssFile.DownloadURL == "" {
		return nil, &ParseFailure{Message: MsgMissingDownloadURLs}
	}
	scriptFile := scriptRule.pick(files)
	configFile := configRule.pick(files)
	thumbnailFile := thumbnailRule.pick(files)

	var (
		html, css, script string
		cfg               *types.ComponentConfig
	)

	var g errgroup.Group
	g.Go(func() error {
		content, err := p.source.FetchFileContent(ctx, htmlFile.DownloadURL)
		if err != nil {
			return &ParseFailure{Message: "failed to fetch " + htmlFile.Path, Cause: err}
		}
		html = content
		return nil
	})
	g.Go(func() error {
		content, err := p.source.FetchFileContent(ctx, cssFile.DownloadURL)
		if err != nil {
			return &ParseFailure{Message: "failed to fetch " + cssFile.Path, Cause: err}
		}
		css = content
		return nil
	})
	if scriptFile != nil && scriptFile.DownloadURL != "" {
		g.Go(func() error {
			content, err := p.source.FetchFileContent(ctx, scriptFile.DownloadURL)
			if err != nil {
				log.Printf("[PARSER] Failed to fetch %s, continuing without script: %v", scriptFile.Path, err)
				return nil
			}
			script = content
			return nil
		})
	}
	g.Go(func() error {
		cfg = p.loadConfig(ctx, configFile)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	component := &types.ParsedComponent{
		HTML:   html,
		CSS:    css,
		Script: script,
		Layout: types.LayoutStatic,
	}
	if thumbnailFile != nil {
		component.Thumbnail = thumbnailFile.DownloadURL
	}
	applyMetadata(component, cfg, metadataDefaults{
		name:     DefaultStaticName,
		category: types.CategoryOther,
	}, detectFromHTML(html))

	return component, nil
}
