package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tashteeb/internal/params"
	"tashteeb/internal/slug"
	"tashteeb/internal/store"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type localizedPayload struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

type extraImagePayload struct {
	ImageID     string           `json:"imageId,omitempty"`
	Description localizedPayload `json:"description"`
}

// ProductPayload is the admin create/update body. Slugs are always derived
// server-side from the English names so they stay consistent with what the
// admin typed, never accepted from the client.
type ProductPayload struct {
	Name        localizedPayload    `json:"name" validate:"required"`
	Description localizedPayload    `json:"description"`
	Category    localizedPayload    `json:"category" validate:"required"`
	Subcategory localizedPayload    `json:"subcategory"`
	ImageID     string              `json:"imageId,omitempty"`
	ExtraImages []extraImagePayload `json:"extraImages,omitempty"`
}

func (p ProductPayload) toProduct() (*store.Product, error) {
	if p.Name.En == "" {
		return nil, fmt.Errorf("english product name is required")
	}
	if p.Category.En == "" {
		return nil, fmt.Errorf("english category label is required")
	}

	product := &store.Product{
		Name:         store.Localized{En: p.Name.En, Ar: p.Name.Ar},
		Slug:         slug.Make(p.Name.En),
		Description:  store.Localized{En: p.Description.En, Ar: p.Description.Ar},
		Category:     store.Localized{En: p.Category.En, Ar: p.Category.Ar},
		CategorySlug: slug.Make(p.Category.En),
		Subcategory:  store.Localized{En: p.Subcategory.En, Ar: p.Subcategory.Ar},
	}
	if p.Subcategory.En != "" {
		product.SubcategorySlug = slug.Make(p.Subcategory.En)
	}

	imageID, err := optionalImageRef(p.ImageID)
	if err != nil {
		return nil, err
	}
	product.ImageID = imageID

	for i, e := range p.ExtraImages {
		ref, err := optionalImageRef(e.ImageID)
		if err != nil {
			return nil, fmt.Errorf("extra image %d: %w", i, err)
		}
		product.ExtraImages = append(product.ExtraImages, store.ExtraImage{
			ImageID:     ref,
			Description: store.Localized{En: e.Description.En, Ar: e.Description.Ar},
		})
	}

	return product, nil
}

// listProductsHandler godoc
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		category	query	string	false	"Filter by category slug"
//	@Param		page		query	int		false	"Page number"
//	@Param		limit		query	int		false	"Items per page"
//	@Success	200	{object}	map[string]any
//	@Security	BasicAuth
//	@Router		/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	var (
		products []store.Product
		err      error
	)
	if categorySlug := q.Get("category"); categorySlug != "" {
		products, err = app.store.Products.ListByCategorySlug(r.Context(), categorySlug)
	} else {
		products, err = app.store.Products.List(r.Context())
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(len(products))
	page := params.Slice(products, p)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"products":   page,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductHandler godoc
//
//	@Summary	Get a product by slug
//	@Tags		products
//	@Produce	json
//	@Param		slug	path		string	true	"Product slug"
//	@Success	200		{object}	store.Product
//	@Failure	404		{object}	error
//	@Security	BasicAuth
//	@Router		/products/{slug} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := app.store.Products.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createProductHandler godoc
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	store.Product
//	@Failure	400	{object}	error
//	@Failure	409	{object}	error
//	@Security	BasicAuth
//	@Router		/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := payload.toProduct()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Products.Create(ctx, product); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, fmt.Errorf("product with slug %q already exists", product.Slug))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.cache.Invalidate(ctx, product.CategorySlug)

	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProductHandler godoc
//
//	@Summary	Update a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		productID	path		string	true	"Product id"
//	@Success	200			{object}	store.Product
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Security	BasicAuth
//	@Router		/products/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed product id"))
		return
	}

	var payload ProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := payload.toProduct()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	product.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	previous, err := app.store.Products.GetByID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Products.Update(ctx, product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if previous != nil {
		if orphans := replacedProductImages(previous, product); len(orphans) > 0 {
			if err := app.store.Images.DeleteMany(ctx, orphans); err != nil {
				app.logger.Warnw("failed to delete replaced product images", "product", product.Slug, "error", err)
			}
		}
	}

	app.cache.Invalidate(ctx, product.CategorySlug)

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

func replacedProductImages(previous, updated *store.Product) []primitive.ObjectID {
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

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Removes the product and its main/extra image records.
//	@Tags			products
//	@Param			productID	path	string	true	"Product id"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		BasicAuth
//	@Router			/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed product id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := app.store.Products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if imageIDs := product.ImageIDs(); len(imageIDs) > 0 {
		if err := app.store.Images.DeleteMany(ctx, imageIDs); err != nil {
			app.logger.Warnw("failed to cascade product image deletion", "product", product.Slug, "error", err)
		}
	}

	app.cache.Invalidate(ctx, product.CategorySlug)

	w.WriteHeader(http.StatusNoContent)
}
