package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"tashteeb/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateProductDerivesSlugs(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	imageID := primitive.NewObjectID()
	payload := map[string]any{
		"name":        map[string]string{"en": "Teak Classic 140", "ar": "تيك كلاسيك"},
		"description": map[string]string{"en": "Hollow composite board."},
		"category":    map[string]string{"en": "Outdoor Decking", "ar": "أرضيات خارجية"},
		"subcategory": map[string]string{"en": "WPC Boards"},
		"imageId":     imageID.Hex(),
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, "/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data store.Product `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Slug != "teak-classic-140" {
		t.Errorf("expected slug %q, got %q", "teak-classic-140", resp.Data.Slug)
	}
	if resp.Data.CategorySlug != "outdoor-decking" {
		t.Errorf("expected category slug %q, got %q", "outdoor-decking", resp.Data.CategorySlug)
	}
	if resp.Data.SubcategorySlug != "wpc-boards" {
		t.Errorf("expected subcategory slug %q, got %q", "wpc-boards", resp.Data.SubcategorySlug)
	}
	if resp.Data.Name.Ar != "تيك كلاسيك" {
		t.Errorf("arabic name lost on round trip: %q", resp.Data.Name.Ar)
	}
}

func TestCreateProductConflict(t *testing.T) {
	app := newTestApplication(t)
	app.store.Products.(*fakeProducts).products = []store.Product{{
		ID:   primitive.NewObjectID(),
		Slug: "teak-classic",
	}}
	mux := app.mount()

	payload := map[string]any{
		"name":     map[string]string{"en": "Teak Classic"},
		"category": map[string]string{"en": "Decking"},
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, "/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusConflict, rr.Code)
}

func TestDeleteProductCascadesImages(t *testing.T) {
	app := newTestApplication(t)

	mainID := primitive.NewObjectID()
	extraID := primitive.NewObjectID()
	product := store.Product{
		ID:           primitive.NewObjectID(),
		Name:         store.Localized{En: "Teak Classic"},
		Slug:         "teak-classic",
		CategorySlug: "decking",
		ImageID:      &mainID,
		ExtraImages:  []store.ExtraImage{{ImageID: &extraID}},
	}
	app.store.Products.(*fakeProducts).products = []store.Product{product}
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodDelete, "/v1/products/"+product.ID.Hex(), nil)
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusNoContent, rr.Code)

	deleted := app.store.Images.(*fakeImages).deleted
	if len(deleted) != 2 {
		t.Fatalf("expected 2 image deletions, got %d", len(deleted))
	}
	want := map[primitive.ObjectID]bool{mainID: true, extraID: true}
	for _, id := range deleted {
		if !want[id] {
			t.Errorf("unexpected image deletion %s", id.Hex())
		}
	}
}

func TestListProductsFiltersByCategory(t *testing.T) {
	app := newTestApplication(t)
	app.store.Products.(*fakeProducts).products = []store.Product{
		{ID: primitive.NewObjectID(), Slug: "a", CategorySlug: "decking"},
		{ID: primitive.NewObjectID(), Slug: "b", CategorySlug: "flooring"},
	}
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodGet, "/v1/products/?category=decking", nil)
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Products []store.Product `json:"products"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Products) != 1 || resp.Data.Products[0].Slug != "a" {
		t.Errorf("expected only the decking product, got %+v", resp.Data.Products)
	}
}
