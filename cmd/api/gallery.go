package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tashteeb/internal/params"
	"tashteeb/internal/store"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryImagePayload is the admin create/update body for a gallery entry.
// The image itself is uploaded separately and referenced by id here.
type GalleryImagePayload struct {
	Title       localizedPayload `json:"title"`
	Description localizedPayload `json:"description"`
	ImageID     string           `json:"imageId" validate:"required"`
	ThumbID     string           `json:"thumbId,omitempty"`
	ThumbURL    string           `json:"thumbUrl,omitempty"`
	Category    string           `json:"category,omitempty"`
}

func (p GalleryImagePayload) toGalleryImage() (*store.GalleryImage, error) {
	imageID, err := optionalImageRef(p.ImageID)
	if err != nil {
		return nil, err
	}
	if imageID == nil {
		return nil, fmt.Errorf("imageId is required")
	}
	thumbID, err := optionalImageRef(p.ThumbID)
	if err != nil {
		return nil, err
	}

	return &store.GalleryImage{
		Title:       store.Localized{En: p.Title.En, Ar: p.Title.Ar},
		Description: store.Localized{En: p.Description.En, Ar: p.Description.Ar},
		ImageID:     imageID,
		ThumbID:     thumbID,
		ThumbURL:    p.ThumbURL,
		Category:    p.Category,
	}, nil
}

// listGalleryHandler godoc
//
//	@Summary	List gallery images
//	@Tags		gallery
//	@Produce	json
//	@Param		category	query	string	false	"Filter by category label"
//	@Param		page		query	int		false	"Page number"
//	@Param		limit		query	int		false	"Items per page"
//	@Success	200	{object}	map[string]any
//	@Security	BasicAuth
//	@Router		/gallery [get]
func (app *application) listGalleryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	var (
		images []store.GalleryImage
		err    error
	)
	if category := q.Get("category"); category != "" {
		images, err = app.store.Gallery.ListByCategory(r.Context(), category)
	} else {
		images, err = app.store.Gallery.List(r.Context())
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(len(images))
	page := params.Slice(images, p)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"images":     page,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createGalleryImageHandler godoc
//
//	@Summary	Add a gallery image
//	@Tags		gallery
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	store.GalleryImage
//	@Failure	400	{object}	error
//	@Security	BasicAuth
//	@Router		/gallery [post]
func (app *application) createGalleryImageHandler(w http.ResponseWriter, r *http.Request) {
	var payload GalleryImagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	image, err := payload.toGalleryImage()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Gallery.Create(ctx, image); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, image); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateGalleryImageHandler godoc
//
//	@Summary	Update a gallery image
//	@Tags		gallery
//	@Accept		json
//	@Produce	json
//	@Param		galleryID	path		string	true	"Gallery entry id"
//	@Success	200			{object}	store.GalleryImage
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Security	BasicAuth
//	@Router		/gallery/{galleryID} [put]
func (app *application) updateGalleryImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "galleryID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed gallery id"))
		return
	}

	var payload GalleryImagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	image, err := payload.toGalleryImage()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	image.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	previous, err := app.store.Gallery.GetByID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Gallery.Update(ctx, image); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if previous != nil {
		if orphans := replacedGalleryImages(previous, image); len(orphans) > 0 {
			if err := app.store.Images.DeleteMany(ctx, orphans); err != nil {
				app.logger.Warnw("failed to delete replaced gallery images", "gallery", id.Hex(), "error", err)
			}
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, image); err != nil {
		app.internalServerError(w, r, err)
	}
}

func replacedGalleryImages(previous, updated *store.GalleryImage) []primitive.ObjectID {
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

// deleteGalleryImageHandler godoc
//
//	@Summary		Delete a gallery image
//	@Description	Removes the gallery entry along with its stored image and thumbnail.
//	@Tags			gallery
//	@Param			galleryID	path	string	true	"Gallery entry id"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		BasicAuth
//	@Router			/gallery/{galleryID} [delete]
func (app *application) deleteGalleryImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "galleryID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed gallery id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	image, err := app.store.Gallery.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if imageIDs := image.ImageIDs(); len(imageIDs) > 0 {
		if err := app.store.Images.DeleteMany(ctx, imageIDs); err != nil {
			app.logger.Warnw("failed to cascade gallery image deletion", "gallery", id.Hex(), "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
