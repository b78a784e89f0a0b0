package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"tashteeb/internal/store"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// helper: sniff first 512 bytes and reset reader
func sniffMIME(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	mime := http.DetectContentType(buf[:n])

	if seeker, ok := file.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("seek reset: %w", err)
		}
	}
	return mime, nil
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// uploadImageHandler godoc
//
//	@Summary		Upload an image
//	@Description	Stores the uploaded file as an opaque image record and returns its reference id. When thumbnail derivation is configured, the response also carries a thumbnail URL.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file (jpeg/png/webp)"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		BasicAuth
//	@Router			/images [post]
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	const maxBytes = 8 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("file field is required: %w", err))
		return
	}
	defer file.Close()

	mime, err := sniffMIME(file)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("sniff mime: %w", err))
		return
	}
	if !allowedImageTypes[mime] {
		app.badRequestResponse(w, r, fmt.Errorf("invalid image type: %s", mime))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	// Thumbnail derivation is best-effort: the master binary lives in the
	// database either way.
	thumbURL := app.deriveThumbnail(data)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := app.store.Images.Put(ctx, data, mime, thumbURL)
	if err != nil {
		app.internalServerError(w, r, fmt.Errorf("store image: %w", err))
		return
	}

	resp := map[string]string{"id": id.Hex()}
	if thumbURL != "" {
		resp["thumbUrl"] = thumbURL
	}
	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deriveThumbnail uploads the image to Cloudinary and returns the delivered
// thumbnail URL, or "" when Cloudinary is not configured or the upload
// fails.
func (app *application) deriveThumbnail(data []byte) string {
	if app.cld == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	resp, err := app.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         "thumbs",
		Transformation: "c_fill,w_400,h_300",
	})
	if err != nil {
		app.logger.Warnw("thumbnail derivation failed", "error", err)
		return ""
	}
	return resp.SecureURL
}

// serveImageHandler streams the stored binary with its recorded content
// type. Public: every <img> on the site points here.
func (app *application) serveImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "imageID"))
	if err != nil {
		app.notFoundResponse(w, r, fmt.Errorf("malformed image id"))
		return
	}

	image, err := app.store.Images.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data.Data)
}

// deleteImageHandler godoc
//
//	@Summary	Delete an image record
//	@Tags		images
//	@Param		imageID	path	string	true	"Image id"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	BasicAuth
//	@Router		/images/{imageID} [delete]
func (app *application) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "imageID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed image id"))
		return
	}

	if err := app.store.Images.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
