// Package web embeds the page templates and stylesheet.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"seungpyo.lee/PersonalBlog/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// SiteName is shown in page titles and the navigation bar.
const SiteName = "Personal Blog"

// FuncMap holds the helpers every template may call.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"excerpt": service.Excerpt,
		// renderSanitizedHTML: only for post bodies, sanitized before they are stored
		"renderSanitizedHTML": func(s string) template.HTML { return template.HTML(s) },
		"formatDate":          func(t time.Time) string { return t.Format("2006-01-02") },
		"siteName":            func() string { return SiteName },
	}
}

// Templates parses every page. extra adds or overrides helpers, such as
// ones bound to services.
func Templates(extra template.FuncMap) (*template.Template, error) {
	funcs := FuncMap()
	for name, fn := range extra {
		funcs[name] = fn
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded assets directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
