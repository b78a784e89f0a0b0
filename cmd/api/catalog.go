package main

import (
	"errors"
	"net/http"
	"strings"

	"tashteeb/internal/store"
)

type homeView struct {
	pageView
	Homepage   *store.HomepageSettings
	Categories []store.Category
}

// homeHandler renders the landing page: narrative blocks plus the category
// navigation.
func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	if app.servePageFromCache(w, r) {
		return
	}

	homepage, err := app.store.Settings.GetHomepage(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	categories, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, "home", homeView{
		pageView:   app.newPageView(r),
		Homepage:   homepage,
		Categories: categories,
	})
}

type listingView struct {
	pageView
	Categories []store.Category
	Products   []store.Product
}

type categoryView struct {
	pageView
	Category   *store.Category
	Categories []store.Category
	Products   []store.Product
}

type subcategoryView struct {
	pageView
	Category    *store.Category
	Subcategory *store.Subcategory
	Products    []store.Product
}

type productView struct {
	pageView
	Product     *store.Product
	Breadcrumbs []string
	Related     []store.Product
}

// catalogHandler serves everything under /products via the wildcard route.
// The trailing path decides the page:
//
//	/products                      full product listing with category sidebar
//	/products/{cat}                category page
//	/products/{cat}/{sub}          subcategory page when {sub} matches an
//	                               embedded subcategory slug, otherwise a
//	                               product detail attempt with {sub} as the
//	                               product slug
//	/products/{a}/{b}/{slug}       product detail; the leading segments are
//	                               only echoed as breadcrumbs
//
// Deeper paths are not found.
func (app *application) catalogHandler(w http.ResponseWriter, r *http.Request) {
	if app.servePageFromCache(w, r) {
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products"), "/")
	var segments []string
	if rest != "" {
		segments = strings.Split(rest, "/")
	}

	switch len(segments) {
	case 0:
		app.renderProductListing(w, r)
	case 1:
		app.renderCategoryPage(w, r, segments[0])
	case 2:
		app.renderSubcategoryOrProduct(w, r, segments[0], segments[1])
	case 3:
		// Only the final segment is resolved; the first two are trusted as
		// breadcrumb labels without a lookup.
		app.renderProductDetail(w, r, segments[2], segments[:2])
	default:
		app.renderNotFound(w, r)
	}
}

func (app *application) renderProductListing(w http.ResponseWriter, r *http.Request) {
	categories, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	products, err := app.store.Products.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, "products", listingView{
		pageView:   app.newPageView(r),
		Categories: categories,
		Products:   products,
	})
}

func (app *application) renderCategoryPage(w http.ResponseWriter, r *http.Request, categorySlug string) {
	category, err := app.fetchCategory(r, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.renderNotFound(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	categories, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	products, err := app.store.Products.ListByCategorySlug(r.Context(), categorySlug)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, "category", categoryView{
		pageView:   app.newPageView(r),
		Category:   category,
		Categories: categories,
		Products:   products,
	})
}

// renderSubcategoryOrProduct disambiguates /products/{cat}/{x}: a subcategory
// slug wins over a product slug with the same value. An unknown category is
// not found outright; the product attempt only happens under a real category.
func (app *application) renderSubcategoryOrProduct(w http.ResponseWriter, r *http.Request, categorySlug, slug string) {
	category, err := app.fetchCategory(r, categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.renderNotFound(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if sub := category.FindSubcategory(slug); sub != nil {
		products, err := app.store.Products.ListBySubcategorySlug(r.Context(), categorySlug, slug)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		app.renderPage(w, r, http.StatusOK, "subcategory", subcategoryView{
			pageView:    app.newPageView(r),
			Category:    category,
			Subcategory: sub,
			Products:    products,
		})
		return
	}

	app.renderProductDetail(w, r, slug, []string{categorySlug})
}

func (app *application) renderProductDetail(w http.ResponseWriter, r *http.Request, productSlug string, breadcrumbs []string) {
	product, err := app.store.Products.GetBySlug(r.Context(), productSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.renderNotFound(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	related, err := app.store.Products.Related(r.Context(), product.CategorySlug, product.ID, 4)
	if err != nil {
		app.logger.Warnw("failed to load related products", "product", product.Slug, "error", err)
	}

	app.renderPage(w, r, http.StatusOK, "product", productView{
		pageView:    app.newPageView(r),
		Product:     product,
		Breadcrumbs: breadcrumbs,
		Related:     related,
	})
}

// fetchCategory reads through the category cache.
func (app *application) fetchCategory(r *http.Request, slug string) (*store.Category, error) {
	var cached store.Category
	if app.cache.GetCategory(r.Context(), slug, &cached) {
		return &cached, nil
	}
	category, err := app.store.Categories.GetBySlug(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	app.cache.SetCategoryAsync(slug, category)
	return category, nil
}

type galleryGroup struct {
	Label  string
	Images []store.GalleryImage
}

type galleryView struct {
	pageView
	Groups []galleryGroup
}

// groupGallery buckets images by their free-text category label, preserving
// first-seen group order. Images without a label land in a trailing group.
func groupGallery(images []store.GalleryImage) []galleryGroup {
	var groups []galleryGroup
	index := make(map[string]int)
	var unlabeled []store.GalleryImage

	for _, img := range images {
		if img.Category == "" {
			unlabeled = append(unlabeled, img)
			continue
		}
		i, ok := index[img.Category]
		if !ok {
			i = len(groups)
			index[img.Category] = i
			groups = append(groups, galleryGroup{Label: img.Category})
		}
		groups[i].Images = append(groups[i].Images, img)
	}
	if len(unlabeled) > 0 {
		groups = append(groups, galleryGroup{Images: unlabeled})
	}
	return groups
}

// galleryPageHandler renders the public gallery grouped by category label. A
// 404 when the gallery is switched off in settings keeps the page out of
// crawler indexes.
func (app *application) galleryPageHandler(w http.ResponseWriter, r *http.Request) {
	if app.servePageFromCache(w, r) {
		return
	}

	view := app.newPageView(r)
	if !view.Site.ShowGallery {
		app.renderNotFound(w, r)
		return
	}

	images, err := app.store.Gallery.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.renderPage(w, r, http.StatusOK, "gallery", galleryView{
		pageView: view,
		Groups:   groupGallery(images),
	})
}
