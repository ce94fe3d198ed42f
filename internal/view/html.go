package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer writes the HTML page.
type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.ParseFS(templatesFS, "templates/page.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{page: page}, nil
}

func (r *Renderer) Render(w io.Writer, m Model) error {
	return r.page.Execute(w, m)
}
