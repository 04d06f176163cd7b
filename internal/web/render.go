// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/sec"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one template file each.
const (
	pageIndex      = "index"
	pagePostDetail = "post_detail"
	pagePostTable  = "post_table"
	pageLogin      = "login"
)

// PageData is passed to every page template.
type PageData struct {
	User      *sec.AuthClaims
	CSRFToken string
	Data      map[string]any
}

// Renderer executes the embedded page templates, each paired with the base layout.
type Renderer struct {
	templates map[string]*template.Template
}

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		return t.UTC().Format("January 2, 2006")
	},
	"join": strings.Join,
	"authorName": func(author post.Author) string {
		name := strings.TrimSpace(author.FirstName + " " + author.LastName)
		if name == "" {
			return author.Email
		}
		return name
	},
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	renderer := &Renderer{templates: make(map[string]*template.Template)}

	for _, page := range []string{pageIndex, pagePostDetail, pagePostTable, pageLogin} {
		parsed, err := template.New(page).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		renderer.templates[page] = parsed
	}

	return renderer, nil
}

// Render writes page with status. The page is rendered to a buffer first so a
// template error never leaves a half-written response.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, page string, data map[string]any) {
	tmpl, ok := renderer.templates[page]
	if !ok {
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pageData := PageData{
		User:      ctxutil.GetAuthUser(request.Context()),
		CSRFToken: ctxutil.GetCSRFToken(request.Context()),
		Data:      data,
	}

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "base", pageData); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "template_render_failed",
			"page", page, "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}
