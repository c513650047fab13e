// Package templates embeds the HTML pages and static assets.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed html
var htmlFS embed.FS

//go:embed static
var staticFS embed.FS

// Item pairs a list element with the page it is rendered on.
type Item struct {
	Page interface{}
	Item interface{}
}

// Field describes one form input.
type Field struct {
	Type  string
	Name  string
	Label string
	Value string
	Error string
}

var funcs = template.FuncMap{
	"item": func(page, item interface{}) Item {
		return Item{Page: page, Item: item}
	},
	"field": func(typ, name, label, value, errMsg string) Field {
		return Field{Type: typ, Name: name, Label: label, Value: value, Error: errMsg}
	},
}

// Renderer executes pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page under html/ together with the layout and partials.
// Pages are keyed by path without extension, e.g. "users/show".
func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}

	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == "html/base.html" || strings.HasPrefix(path, "html/partials/") {
			return nil
		}
		tmpl, err := template.New("base").Funcs(funcs).ParseFS(htmlFS, "html/base.html", "html/partials/*.html", path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "html/"), ".html")
		r.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render writes the named page with the given status. The page is executed
// into a buffer first so a template error never leaves a half-written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
