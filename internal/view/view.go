// Package view holds the embedded HTML templates and static assets.
package view

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/stemsi/college-registration/internal/model"
)

// IndexTemplate is the name of the combined form and list page.
const IndexTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// IndexPage is the data rendered by IndexTemplate.
type IndexPage struct {
	Title    string
	Students []model.Student
}

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Static returns the embedded static directory rooted at its contents.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
