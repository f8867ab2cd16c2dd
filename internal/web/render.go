package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

// render executes layout.html plus the named page template. Templates are
// embedded so the binary carries its own pages.
func render(w http.ResponseWriter, name string, data interface{}) {
	t, err := template.ParseFS(templatesFS,
		"templates/layout.html",
		"templates/post_card.html",
		"templates/pager.html",
		"templates/"+name,
	)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to parse template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
	}
}
