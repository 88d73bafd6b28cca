package rendering

import (
	"embed"
	"io/fs"
	"text/template"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded document templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

const (
	staticTemplateName  = "static.html.tmpl"
	dynamicTemplateName = "dynamic.html.tmpl"
)

var templateFuncs = template.FuncMap{
	"jsString": JSString,
}

// parseTemplates loads every template of files into one set.
func parseTemplates(files fs.FS) (*template.Template, error) {
	tmpl, err := template.New("documents").Funcs(templateFuncs).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse document templates", Cause: err}
	}
	for _, name := range []string{staticTemplateName, dynamicTemplateName, "panel"} {
		if tmpl.Lookup(name) == nil {
			return nil, &TemplateError{Message: "missing template " + name}
		}
	}
	return tmpl, nil
}

var defaultTemplates = template.Must(parseTemplates(embeddedTemplates))
