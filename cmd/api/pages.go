package main

import (
	"errors"
	"net/http"

	"tashteeb/internal/store"

	"github.com/go-chi/chi/v5"
)

// landingPages enumerates the bespoke product-line pages. Each maps the route
// slug to the category whose content backs it when no ?category override is
// given.
var landingPages = map[string]string{
	"wpc-decking":      "decking",
	"spc-flooring":     "flooring",
	"wall-cladding":    "cladding",
	"artificial-grass": "landscaping",
	"pergolas":         "outdoor-structures",
}

type landingView struct {
	pageView
	PageSlug    string
	Category    *store.Category
	Subcategory *store.Subcategory
	Products    []store.Product
}

// landingPageHandler renders one of the fixed marketing pages. The dynamic
// content comes from the subcategory linked to the page: first by its
// hardcodedPageSlug field, then by a plain slug match, and failing both the
// page falls back to the category's product list.
func (app *application) landingPageHandler(w http.ResponseWriter, r *http.Request) {
	pageSlug := chi.URLParam(r, "pageSlug")
	categorySlug, ok := landingPages[pageSlug]
	if !ok {
		app.renderNotFound(w, r)
		return
	}
	if override := r.URL.Query().Get("category"); override != "" {
		categorySlug = override
	}

	if app.servePageFromCache(w, r) {
		return
	}

	category, err := app.fetchCategory(r, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.renderNotFound(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	var sub *store.Subcategory
	for i := range category.Subcategories {
		if category.Subcategories[i].HardcodedPageSlug == pageSlug {
			sub = &category.Subcategories[i]
			break
		}
	}
	if sub == nil {
		sub = category.FindSubcategory(pageSlug)
	}

	var products []store.Product
	if sub != nil {
		products, err = app.store.Products.ListBySubcategorySlug(r.Context(), category.Slug, sub.Slug)
	} else {
		products, err = app.store.Products.ListByCategorySlug(r.Context(), category.Slug)
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, "landing", landingView{
		pageView:    app.newPageView(r),
		PageSlug:    pageSlug,
		Category:    category,
		Subcategory: sub,
		Products:    products,
	})
}
