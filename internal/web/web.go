// Package web embeds the HTML pages and renders them with the shared
// layout and the globals every page needs (gear flag, network settings,
// restart indicator).
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Globals is injected into every rendered page, mirroring what the nav
// and the restart banner need.
type Globals struct {
	GearEnabled    bool
	CurrentPort    string
	CurrentHost    string
	PendingChanges bool
}

// Page wraps the per-request data handed to a template.
type Page struct {
	Title   string
	Globals Globals
	Error   string
	Data    any
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"fmtID": func(id int64) string { return fmt.Sprintf("%04d", id) },
	"fmtUnix": func(ts int64) string {
		if ts == 0 {
			return ""
		}
		return time.Unix(ts, 0).Format("2006-01-02")
	},
}

// pageNames lists every page template; each is parsed together with the
// base layout.
var pageNames = []string{
	"index.html",
	"add_roll.html",
	"roll_detail.html",
	"edit_roll.html",
	"stats.html",
	"gear.html",
	"add_gear.html",
	"preferences.html",
	"notfound.html",
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes a page template into w.
func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return t.ExecuteTemplate(w, "base.html", p)
}
