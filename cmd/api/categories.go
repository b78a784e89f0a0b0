package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tashteeb/internal/draft"
	"tashteeb/internal/slug"
	"tashteeb/internal/store"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listCategoriesHandler godoc
//
//	@Summary	List categories with embedded subcategories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	store.Category
//	@Security	BasicAuth
//	@Router		/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, categories); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCategoryHandler godoc
//
//	@Summary	Get a category by slug
//	@Tags		categories
//	@Produce	json
//	@Param		slug	path		string	true	"Category slug"
//	@Success	200		{object}	store.Category
//	@Failure	404		{object}	error
//	@Security	BasicAuth
//	@Router		/categories/{slug} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")

	var cached store.Category
	if app.cache.GetCategory(r.Context(), categorySlug, &cached) {
		_ = app.jsonResponse(w, http.StatusOK, &cached)
		return
	}

	category, err := app.store.Categories.GetBySlug(r.Context(), categorySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.cache.SetCategoryAsync(categorySlug, category)

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// parseCategoryForm reads the consolidated category form: top-level
// bilingual name/description fields plus one JSON-serialized `subcategories`
// array (the shape produced by the draft submission pipeline).
func (app *application) parseCategoryForm(w http.ResponseWriter, r *http.Request) (*store.Category, error) {
	const maxBytes = 2 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	category := &store.Category{
		Name: store.Localized{
			En: strings.TrimSpace(r.FormValue("nameEn")),
			Ar: strings.TrimSpace(r.FormValue("nameAr")),
		},
		Description: store.Localized{
			En: strings.TrimSpace(r.FormValue("descriptionEn")),
			Ar: strings.TrimSpace(r.FormValue("descriptionAr")),
		},
	}
	if category.Name.En == "" {
		return nil, fmt.Errorf("english category name is required")
	}
	category.Slug = slug.Make(category.Name.En)
	if !slug.IsValid(category.Slug) {
		return nil, fmt.Errorf("category name %q does not yield a usable slug", category.Name.En)
	}

	if raw := r.FormValue("subcategories"); raw != "" {
		var payloads []draft.SubcategoryPayload
		if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
			return nil, fmt.Errorf("malformed subcategories payload: %w", err)
		}
		subs, err := subcategoriesFromPayload(payloads)
		if err != nil {
			return nil, err
		}
		category.Subcategories = subs
	}

	return category, nil
}

// subcategoriesFromPayload converts wire payloads into embedded documents.
// Image references must be well-formed ids; an empty reference is simply an
// absent image (the draft pipeline leaves references empty for failed
// uploads).
func subcategoriesFromPayload(payloads []draft.SubcategoryPayload) ([]store.Subcategory, error) {
	subs := make([]store.Subcategory, 0, len(payloads))
	for i, p := range payloads {
		if p.Name.En == "" && p.Name.Ar == "" {
			return nil, fmt.Errorf("subcategory %d has no name", i)
		}

		sub := store.Subcategory{
			Name:              p.Name,
			Description:       p.Description,
			Slogan:            p.Slogan,
			HardcodedPageSlug: p.HardcodedPageSlug,
		}

		if p.ID != "" {
			id, err := primitive.ObjectIDFromHex(p.ID)
			if err != nil {
				return nil, fmt.Errorf("subcategory %d has malformed id %q", i, p.ID)
			}
			sub.ID = id
		}

		sub.Slug = slug.Make(p.Name.En)
		if sub.Slug == "" {
			sub.Slug = slug.Make(p.Name.Ar)
		}

		logoID, err := optionalImageRef(p.LogoID)
		if err != nil {
			return nil, fmt.Errorf("subcategory %d logo: %w", i, err)
		}
		sub.LogoID = logoID

		for j, b := range p.Benefits {
			imageID, err := optionalImageRef(b.ImageID)
			if err != nil {
				return nil, fmt.Errorf("subcategory %d benefit %d: %w", i, j, err)
			}
			sub.Benefits = append(sub.Benefits, store.Benefit{ImageID: imageID, Description: b.Description})
		}
		for j, c := range p.Colors {
			imageID, err := optionalImageRef(c.ImageID)
			if err != nil {
				return nil, fmt.Errorf("subcategory %d color %d: %w", i, j, err)
			}
			sub.Colors = append(sub.Colors, store.Color{ImageID: imageID})
		}

		subs = append(subs, sub)
	}
	return subs, nil
}

func optionalImageRef(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("malformed image reference %q", hex)
	}
	return &id, nil
}

// createCategoryHandler godoc
//
//	@Summary	Create a category
//	@Tags		categories
//	@Accept		multipart/form-data
//	@Produce	json
//	@Success	201	{object}	store.Category
//	@Failure	400	{object}	error
//	@Failure	409	{object}	error
//	@Security	BasicAuth
//	@Router		/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category, err := app.parseCategoryForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Categories.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, fmt.Errorf("category with slug %q already exists", category.Slug))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.cache.Invalidate(ctx, category.Slug)

	if err := app.jsonResponse(w, http.StatusCreated, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCategoryHandler godoc
//
//	@Summary	Update a category and its embedded subcategories
//	@Tags		categories
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		categoryID	path		string	true	"Category id"
//	@Success	200			{object}	store.Category
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Security	BasicAuth
//	@Router		/categories/{categoryID} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "categoryID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed category id"))
		return
	}

	category, err := app.parseCategoryForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	category.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Replacing an image leaves the old record orphaned unless we compare
	// against what was stored before.
	previous, err := app.store.Categories.GetByID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Categories.Update(ctx, category); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if previous != nil {
		if orphans := replacedImageIDs(previous, category); len(orphans) > 0 {
			if err := app.store.Images.DeleteMany(ctx, orphans); err != nil {
				app.logger.Warnw("failed to delete replaced images", "category", category.Slug, "error", err)
			}
		}
		if previous.Slug != category.Slug {
			app.cache.Invalidate(ctx, previous.Slug)
		}
	}
	app.cache.Invalidate(ctx, category.Slug)

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// replacedImageIDs returns image ids referenced by the previous document
// but no longer referenced by the updated one.
func replacedImageIDs(previous, updated *store.Category) []primitive.ObjectID {
	still := make(map[primitive.ObjectID]bool)
	for _, id := range updated.ImageIDs() {
		still[id] = true
	}
	var orphans []primitive.ObjectID
	for _, id := range previous.ImageIDs() {
		if !still[id] {
			orphans = append(orphans, id)
		}
	}
	return orphans
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete a category
//	@Description	Deletes the category document and every image its subcategories reference (logos, benefit images, color swatches). Image deletes are sequential and best-effort.
//	@Tags			categories
//	@Param			categoryID	path	string	true	"Category id"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		BasicAuth
//	@Router			/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "categoryID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category, err := app.store.Categories.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if imageIDs := category.ImageIDs(); len(imageIDs) > 0 {
		if err := app.store.Images.DeleteMany(ctx, imageIDs); err != nil {
			// The category itself is gone; orphaned images are the accepted
			// failure mode here.
			app.logger.Warnw("failed to cascade image deletion", "category", category.Slug, "error", err)
		}
	}

	app.cache.Invalidate(ctx, category.Slug)

	w.WriteHeader(http.StatusNoContent)
}

type reorderPayload struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// reorderCategoriesHandler godoc
//
//	@Summary	Persist a new category display order
//	@Tags		categories
//	@Accept		json
//	@Success	204
//	@Failure	400	{object}	error
//	@Security	BasicAuth
//	@Router		/categories/reorder [put]
func (app *application) reorderCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var payload reorderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(payload.IDs))
	for _, raw := range payload.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("malformed category id %q", raw))
			return
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Categories.Reorder(ctx, ids); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.cache.Invalidate(ctx)

	w.WriteHeader(http.StatusNoContent)
}
