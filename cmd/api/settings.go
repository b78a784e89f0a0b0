package main

import (
	"context"
	"net/http"
	"time"

	"tashteeb/internal/store"
)

// SettingsPayload mirrors store.Settings minus the fixed document id.
type SettingsPayload struct {
	SiteName     localizedPayload `json:"siteName"`
	Description  localizedPayload `json:"description"`
	Address      localizedPayload `json:"address"`
	Phone        localizedPayload `json:"phone"`
	ContactEmail string           `json:"contactEmail" validate:"omitempty,email"`
	ShowGallery  bool             `json:"showGallery"`
	ShowContact  bool             `json:"showContact"`
	Locale       string           `json:"locale" validate:"omitempty,oneof=en ar"`
	Currency     string           `json:"currency" validate:"omitempty,len=3"`
	Theme        string           `json:"theme"`
	LogoID       string           `json:"logoId,omitempty"`
}

type homepageValuePayload struct {
	Title       localizedPayload `json:"title"`
	Description localizedPayload `json:"description"`
}

type HomepagePayload struct {
	Story        localizedPayload       `json:"story"`
	Vision       localizedPayload       `json:"vision"`
	Mission      localizedPayload       `json:"mission"`
	FounderQuote localizedPayload       `json:"founderQuote"`
	Values       []homepageValuePayload `json:"values,omitempty"`
}

// getSettingsHandler godoc
//
//	@Summary	Get site settings
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	store.Settings
//	@Security	BasicAuth
//	@Router		/settings [get]
func (app *application) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.store.Settings.Get(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, settings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateSettingsHandler godoc
//
//	@Summary	Update site settings
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	store.Settings
//	@Failure	400	{object}	error
//	@Security	BasicAuth
//	@Router		/settings [put]
func (app *application) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var payload SettingsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	logoID, err := optionalImageRef(payload.LogoID)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	settings := &store.Settings{
		SiteName:     store.Localized{En: payload.SiteName.En, Ar: payload.SiteName.Ar},
		Description:  store.Localized{En: payload.Description.En, Ar: payload.Description.Ar},
		Address:      store.Localized{En: payload.Address.En, Ar: payload.Address.Ar},
		Phone:        store.Localized{En: payload.Phone.En, Ar: payload.Phone.Ar},
		ContactEmail: payload.ContactEmail,
		ShowGallery:  payload.ShowGallery,
		ShowContact:  payload.ShowContact,
		Locale:       payload.Locale,
		Currency:     payload.Currency,
		Theme:        payload.Theme,
		LogoID:       logoID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Settings.Update(ctx, settings); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.cache.Invalidate(ctx)

	if err := app.jsonResponse(w, http.StatusOK, settings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getHomepageHandler godoc
//
//	@Summary	Get homepage content blocks
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	store.HomepageSettings
//	@Security	BasicAuth
//	@Router		/settings/homepage [get]
func (app *application) getHomepageSettingsHandler(w http.ResponseWriter, r *http.Request) {
	homepage, err := app.store.Settings.GetHomepage(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, homepage); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateHomepageHandler godoc
//
//	@Summary	Update homepage content blocks
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	store.HomepageSettings
//	@Failure	400	{object}	error
//	@Security	BasicAuth
//	@Router		/settings/homepage [put]
func (app *application) updateHomepageSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var payload HomepagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	homepage := &store.HomepageSettings{
		Story:        store.Localized{En: payload.Story.En, Ar: payload.Story.Ar},
		Vision:       store.Localized{En: payload.Vision.En, Ar: payload.Vision.Ar},
		Mission:      store.Localized{En: payload.Mission.En, Ar: payload.Mission.Ar},
		FounderQuote: store.Localized{En: payload.FounderQuote.En, Ar: payload.FounderQuote.Ar},
	}
	for _, v := range payload.Values {
		homepage.Values = append(homepage.Values, store.HomepageValue{
			Title:       store.Localized{En: v.Title.En, Ar: v.Title.Ar},
			Description: store.Localized{En: v.Description.En, Ar: v.Description.Ar},
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := app.store.Settings.UpdateHomepage(ctx, homepage); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.cache.Invalidate(ctx)

	if err := app.jsonResponse(w, http.StatusOK, homepage); err != nil {
		app.internalServerError(w, r, err)
	}
}
