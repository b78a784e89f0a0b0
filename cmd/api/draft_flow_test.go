package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"tashteeb/internal/draft"
	"tashteeb/internal/store"
	"tashteeb/internal/uploader"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestAdminEditingFlow drives the full back-office path: build a draft with
// pending files, resolve the uploads through the real image endpoint, then
// submit the consolidated payload to the category update endpoint.
func TestAdminEditingFlow(t *testing.T) {
	app := newTestApplication(t)

	category := store.Category{
		ID:   primitive.NewObjectID(),
		Name: store.Localized{En: "Decking"},
		Slug: "decking",
	}
	app.store.Categories.(*fakeCategories).categories = []store.Category{category}

	srv := httptest.NewServer(app.mount())
	defer srv.Close()

	subs := draft.AddSubcategory(nil)
	subs = draft.SetField(subs, 0, draft.FieldName, "en", "WPC Boards")
	subs = draft.SetField(subs, 0, draft.FieldName, "ar", "ألواح مركبة")
	subs = draft.SetLogo(subs, 0, &draft.PendingUpload{
		Filename: "logo.png",
		Payload:  pngPayload(t),
	})
	subs = draft.AddBenefit(subs, 0)
	subs = draft.SetBenefitFile(subs, 0, 0, &draft.PendingUpload{
		Filename: "benefit.png",
		Payload:  pngPayload(t),
	})

	client := uploader.New(srv.URL+"/v1/images", "admin", "secret")
	d := draft.CategoryDraft{Name: category.Name, Subcategories: subs}

	var progress []draft.Progress
	payloads, results, err := draft.Submit(context.Background(), d, client.UploadRef, func(p draft.Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 upload results, got %d", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("upload %s failed: %v", res.Kind, res.Err)
		}
		if res.Ref == "" {
			t.Fatalf("upload %s resolved no reference", res.Kind)
		}
	}
	if len(progress) == 0 {
		t.Fatal("no progress reported during submission")
	}

	raw, err := json.Marshal(payloads)
	if err != nil {
		t.Fatalf("marshal payloads: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("nameEn", "Decking")
	mw.WriteField("subcategories", string(raw))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/categories/"+category.ID.Hex(), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth("admin", "secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update returned %d", resp.StatusCode)
	}

	stored := app.store.Categories.(*fakeCategories).categories[0]
	if len(stored.Subcategories) != 1 {
		t.Fatalf("expected 1 stored subcategory, got %d", len(stored.Subcategories))
	}
	sub := stored.Subcategories[0]
	if sub.Name.Ar != "ألواح مركبة" {
		t.Errorf("arabic name lost through the pipeline: %q", sub.Name.Ar)
	}
	if sub.LogoID == nil {
		t.Error("logo reference missing after submit")
	}
	if len(sub.Benefits) != 1 || sub.Benefits[0].ImageID == nil {
		t.Error("benefit image reference missing after submit")
	}

	// Both uploaded binaries must be resolvable through the public serve path.
	for _, id := range []*primitive.ObjectID{sub.LogoID, sub.Benefits[0].ImageID} {
		if id == nil {
			continue
		}
		got, err := http.Get(srv.URL + "/images/" + id.Hex())
		if err != nil {
			t.Fatalf("serve image: %v", err)
		}
		got.Body.Close()
		if got.StatusCode != http.StatusOK {
			t.Errorf("image %s not servable: %d", id.Hex(), got.StatusCode)
		}
	}
}
