package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pngPayload(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 180, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func uploadImageRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, "/v1/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth("admin", "secret")
	return req
}

func TestUploadAndServeImage(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	payload := pngPayload(t)
	rr := executeRequest(uploadImageRequest(t, payload), mux)
	checkResponseCode(t, http.StatusCreated, rr.Code)

	// The upload response is flat, not wrapped in the data envelope, so the
	// admin upload client can decode it directly.
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	id, ok := resp["id"]
	if !ok || id == "" {
		t.Fatalf("expected an id in the upload response, got %v", resp)
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		t.Fatalf("upload id %q is not a valid object id", id)
	}

	req, _ := http.NewRequest(http.MethodGet, "/images/"+id, nil)
	serve := executeRequest(req, mux)
	checkResponseCode(t, http.StatusOK, serve.Code)
	if ct := serve.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png content type, got %q", ct)
	}
	if !bytes.Equal(serve.Body.Bytes(), payload) {
		t.Errorf("served bytes differ from uploaded bytes")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	rr := executeRequest(uploadImageRequest(t, []byte("#!/bin/sh\necho nope\n")), mux)
	checkResponseCode(t, http.StatusBadRequest, rr.Code)
}

func TestServeUnknownImage(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodGet, "/images/"+primitive.NewObjectID().Hex(), nil)
	rr := executeRequest(req, mux)
	checkResponseCode(t, http.StatusNotFound, rr.Code)
}

func TestDeleteImage(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	rr := executeRequest(uploadImageRequest(t, pngPayload(t)), mux)
	checkResponseCode(t, http.StatusCreated, rr.Code)

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, "/v1/images/"+resp["id"], nil)
	req.SetBasicAuth("admin", "secret")
	del := executeRequest(req, mux)
	checkResponseCode(t, http.StatusNoContent, del.Code)

	get, _ := http.NewRequest(http.MethodGet, "/images/"+resp["id"], nil)
	gone := executeRequest(get, mux)
	checkResponseCode(t, http.StatusNotFound, gone.Code)
}
