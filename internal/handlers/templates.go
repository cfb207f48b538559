package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
)

// ParseTemplates parses every page and partial template in fsys. Templates are
// named by their base file name.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl := template.New("")

	patterns := []string{
		"templates/*.html",
		"templates/partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := fs.ReadFile(fsys, match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := path.Base(match)
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	if tmpl.Lookup("index.html") == nil {
		return nil, fmt.Errorf("index.html template not found")
	}

	return tmpl, nil
}
