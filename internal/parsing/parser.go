package parsing

import (
	"context"
	"path"
	"strings"

	"github.com/jonathan/framecraft/internal/types"
	"github.com/jonathan/framecraft/internal/validation"
)

// Source lists directories and fetches file content within one repository.
// source.RepoSource satisfies it.
type Source interface {
	ListDirectory(ctx context.Context, path string) ([]types.RemoteFile, error)
	FetchFileContent(ctx context.Context, url string) (string, error)
}

// Parser produces ParsedComponents from a Source.
type Parser struct {
	source Source
}

// NewParser creates a parser reading from src.
func NewParser(src Source) *Parser {
	return &Parser{source: src}
}

// Parse classifies files (the listing of basePath) and runs the matching strategy.
func (p *Parser) Parse(ctx context.Context, basePath string, files []types.RemoteFile) (*types.ParsedComponent, error) {
	if validation.Classify(files) == types.LayoutFramework {
		return p.parseFramework(ctx, basePath, files)
	}
	return p.parseStatic(ctx, files)
}

// ParseValidated runs the strategy chosen by a prior validation. An invalid
// result is rejected without fetching anything.
func (p *Parser) ParseValidated(ctx context.Context, basePath string, files []types.RemoteFile, result *types.ValidationResult) (*types.ParsedComponent, error) {
	if result == nil {
		result = validation.Validate(files)
	}
	if !result.Valid {
		return nil, &StructuralInvalid{Result: result}
	}
	if result.Layout == types.LayoutFramework {
		return p.parseFramework(ctx, basePath, files)
	}
	return p.parseStatic(ctx, files)
}

// ParsePath lists basePath, validates the listing, and parses it.
// The validation result is returned even when parsing fails.
func (p *Parser) ParsePath(ctx context.Context, basePath string) (*types.ParsedComponent, *types.ValidationResult, error) {
	files, err := p.source.ListDirectory(ctx, basePath)
	if err != nil {
		return nil, nil, err
	}
	result := validation.Validate(files)
	component, err := p.ParseValidated(ctx, basePath, files, result)
	if err != nil {
		return nil, result, err
	}
	return component, result, nil
}

// JoinPath joins a repository-relative base and sub path.
// An empty base yields sub unchanged: JoinPath("", "src") == "src".
func JoinPath(base, sub string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	sub = strings.Trim(strings.TrimSpace(sub), "/")
	switch {
	case base == "":
		return sub
	case sub == "":
		return base
	default:
		return path.Join(base, sub)
	}
}

// baseName strips the final extension from a file name.
func baseName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
