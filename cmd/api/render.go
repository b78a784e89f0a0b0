package main

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"tashteeb/internal/store"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageView carries what every public page needs. Lang comes from the ?lang
// query parameter and drives both text selection and the dir attribute.
type pageView struct {
	Lang string
	Dir  string
	Path string
	Site *store.Settings
}

func (app *application) newPageView(r *http.Request) pageView {
	lang := r.URL.Query().Get("lang")
	if lang != "ar" {
		lang = "en"
	}
	dir := "ltr"
	if lang == "ar" {
		dir = "rtl"
	}

	site, err := app.store.Settings.Get(r.Context())
	if err != nil {
		app.logger.Warnw("failed to load site settings for page render", "error", err)
		site = &store.Settings{Locale: "en", ShowGallery: true, ShowContact: true}
	}

	return pageView{Lang: lang, Dir: dir, Path: r.URL.Path, Site: site}
}

// renderPage executes the named template and writes the result, consulting
// the page cache keyed by path+query so repeat hits skip the database.
func (app *application) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	cacheKey := r.URL.RequestURI()
	cacheable := status == http.StatusOK && r.Method == http.MethodGet

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if cacheable {
		app.cache.SetPageAsync(cacheKey, buf.Bytes())
	}

	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// servePageFromCache writes a cached rendering if one exists.
func (app *application) servePageFromCache(w http.ResponseWriter, r *http.Request) bool {
	body, ok := app.cache.GetPage(r.Context(), r.URL.RequestURI())
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return true
}

func (app *application) renderNotFound(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, http.StatusNotFound, "notfound", app.newPageView(r))
}
