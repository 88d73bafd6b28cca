package validation

import (
	"strings"

	"github.com/jonathan/framecraft/internal/types"
)

// Diagnostics reported by Validate.
const (
	MsgMissingHTML       = "No HTML file found"
	MsgMissingCSS        = "No CSS file found"
	MsgMissingConfig     = "No config.json found - metadata will be auto-generated"
	MsgMissingThumbnail  = "No thumbnail image found - preview will be auto-generated"
	MsgFrameworkDetected = "Framework project detected - component will be parsed from src/"
)

// SourceDirName and ManifestName mark a nested framework project.
const (
	SourceDirName = "src"
	ManifestName  = "package.json"
)

var (
	configNames         = []string{"config.json", "config.yaml", "config.yml"}
	thumbnailExtensions = []string{".png", ".jpg", ".jpeg"}
)

// Validate classifies a directory listing as a static or framework layout and
// reports what is missing. It never fetches file content.
// Valid is true exactly when Errors is empty.
func Validate(files []types.RemoteFile) *types.ValidationResult {
	result := &types.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
		Layout:   Classify(files),
	}

	if result.Layout == types.LayoutFramework {
		// Components may live several directories below src/, so final
		// validity is decided by the parser.
		result.Warnings = append(result.Warnings, MsgFrameworkDetected)
		result.Valid = true
		return result
	}

	if !hasFileWithSuffix(files, ".html") {
		result.Errors = append(result.Errors, MsgMissingHTML)
	}
	if !hasFileWithSuffix(files, ".css") {
		result.Errors = append(result.Errors, MsgMissingCSS)
	}
	if !hasFileNamed(files, configNames...) {
		result.Warnings = append(result.Warnings, MsgMissingConfig)
	}
	if !hasFileWithSuffix(files, thumbnailExtensions...) {
		result.Warnings = append(result.Warnings, MsgMissingThumbnail)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Classify reports the layout of a listing: framework when it contains a src
// directory alongside a package.json manifest, static otherwise.
func Classify(files []types.RemoteFile) types.Layout {
	hasSource := false
	hasManifest := false
	for _, f := range files {
		switch {
		case f.IsDir() && f.Name == SourceDirName:
			hasSource = true
		case !f.IsDir() && f.Name == ManifestName:
			hasManifest = true
		}
	}
	if hasSource && hasManifest {
		return types.LayoutFramework
	}
	return types.LayoutStatic
}

func hasFileWithSuffix(files []types.RemoteFile, suffixes ...string) bool {
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name)
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				return true
			}
		}
	}
	return false
}

func hasFileNamed(files []types.RemoteFile, names ...string) bool {
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(f.Name, name) {
				return true
			}
		}
	}
	return false
}
