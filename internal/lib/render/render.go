package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Renderer - обертка над html/template: шаблоны разбираются один раз при старте,
// страница сначала собирается в буфер, чтобы ошибка рендера не отдала клиенту пол-страницы.
type Renderer struct {
	log  *slog.Logger
	tmpl *template.Template
}

func New(log *slog.Logger, dir string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": func(amount float64) string {
			return fmt.Sprintf("%.2f", amount)
		},
	}).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{log: log, tmpl: tmpl}, nil
}

// HTML рендерит именованный шаблон с указанным статусом
func (r *Renderer) HTML(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.log.Error("failed to render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
