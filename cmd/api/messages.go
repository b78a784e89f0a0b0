package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tashteeb/internal/mailer"
	"tashteeb/internal/params"
	"tashteeb/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/speps/go-hashids/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactPayload is the public contact form body. Phone arrives with the
// country code already prepended by the form.
type ContactPayload struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Phone string `json:"phone" validate:"required,intlphone"`
	Body  string `json:"body" validate:"required,min=5,max=2000"`
}

// messageReference turns the insertion timestamp into a short human-friendly
// ticket code the visitor can quote when calling back.
func messageReference(at time.Time) string {
	hd := hashids.NewData()
	hd.Salt = "tashteeb-contact"
	hd.MinLength = 6
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return ""
	}
	code, err := h.EncodeInt64([]int64{at.Unix()})
	if err != nil {
		return ""
	}
	return "TSH-" + strings.ToUpper(code)
}

// contactHandler godoc
//
//	@Summary		Submit a contact message
//	@Description	Public endpoint behind the rate limiter. Stores the message and notifies the site admin by email.
//	@Tags			contact
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	map[string]string
//	@Failure		400	{object}	error
//	@Failure		429	{object}	error
//	@Router			/contact [post]
func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	var payload ContactPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	message := &store.Message{
		Name:      strings.TrimSpace(payload.Name),
		Phone:     strings.TrimSpace(payload.Phone),
		Body:      strings.TrimSpace(payload.Body),
		Reference: messageReference(time.Now().UTC()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Messages.Create(ctx, message); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Notify the admin out of band; a mail failure must not fail the submission.
	if app.mailer != nil && app.config.mail.adminEmail != "" {
		go func(m store.Message) {
			status, err := app.mailer.Send(mailer.ContactNotificationTemplate, "Admin", app.config.mail.adminEmail, m)
			if err != nil {
				app.logger.Warnw("failed to send contact notification", "reference", m.Reference, "status", status, "error", err)
			}
		}(*message)
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{
		"reference": message.Reference,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMessagesHandler godoc
//
//	@Summary	List contact messages
//	@Tags		contact
//	@Produce	json
//	@Param		page	query	int	false	"Page number"
//	@Param		limit	query	int	false	"Items per page"
//	@Success	200	{object}	map[string]any
//	@Security	BasicAuth
//	@Router		/messages [get]
func (app *application) listMessagesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	messages, err := app.store.Messages.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(len(messages))
	page := params.Slice(messages, p)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"messages":   page,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// markMessageReadHandler godoc
//
//	@Summary	Mark a contact message as read
//	@Tags		contact
//	@Param		messageID	path	string	true	"Message id"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	BasicAuth
//	@Router		/messages/{messageID}/read [put]
func (app *application) markMessageReadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed message id"))
		return
	}

	if err := app.store.Messages.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteMessageHandler godoc
//
//	@Summary	Delete a contact message
//	@Tags		contact
//	@Param		messageID	path	string	true	"Message id"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	BasicAuth
//	@Router		/messages/{messageID} [delete]
func (app *application) deleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed message id"))
		return
	}

	if err := app.store.Messages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
