package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tashteeb/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func postContact(mux http.Handler, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, "/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return executeRequest(req, mux)
}

func TestContactSubmission(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	res := postContact(mux, map[string]string{
		"name":  "Abdullah",
		"phone": "+966512345678",
		"body":  "Interested in WPC decking for a rooftop terrace.",
	})

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Data["reference"], "TSH-") {
		t.Errorf("expected a TSH- reference code, got %q", resp.Data["reference"])
	}

	stored := app.store.Messages.(*fakeMessages).messages
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	if stored[0].Read {
		t.Errorf("new messages must start unread")
	}
	if stored[0].Reference != resp.Data["reference"] {
		t.Errorf("stored reference %q does not match response %q", stored[0].Reference, resp.Data["reference"])
	}
}

func TestContactValidation(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing name", map[string]string{"phone": "+966512345678", "body": "hello there"}},
		{"short name", map[string]string{"name": "A", "phone": "+966512345678", "body": "hello there"}},
		{"bad phone", map[string]string{"name": "Abdullah", "phone": "not-a-phone", "body": "hello there"}},
		{"short body", map[string]string{"name": "Abdullah", "phone": "+966512345678", "body": "hi"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := postContact(mux, tc.payload)
			if res.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", res.Code)
			}
		})
	}

	if got := len(app.store.Messages.(*fakeMessages).messages); got != 0 {
		t.Errorf("invalid submissions must not be stored, found %d", got)
	}
}

func TestMessageReference(t *testing.T) {
	a := messageReference(time.Unix(1700000000, 0))
	b := messageReference(time.Unix(1700000001, 0))

	if a == "" || b == "" {
		t.Fatal("expected non-empty references")
	}
	if a == b {
		t.Errorf("different timestamps must yield different references, both %q", a)
	}
	if !strings.HasPrefix(a, "TSH-") {
		t.Errorf("expected TSH- prefix, got %q", a)
	}
	if again := messageReference(time.Unix(1700000000, 0)); again != a {
		t.Errorf("reference must be deterministic for a timestamp: %q vs %q", again, a)
	}
}

func TestMarkMessageRead(t *testing.T) {
	app := newTestApplication(t)
	msg := store.Message{ID: primitive.NewObjectID(), Name: "Abdullah", Phone: "+966512345678", Body: "hello"}
	app.store.Messages.(*fakeMessages).messages = []store.Message{msg}
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPut, "/v1/messages/"+msg.ID.Hex()+"/read", nil)
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusNoContent, rr.Code)
	if !app.store.Messages.(*fakeMessages).messages[0].Read {
		t.Errorf("message not marked read")
	}
}

func TestDeleteMessageNotFound(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodDelete, "/v1/messages/"+primitive.NewObjectID().Hex(), nil)
	req.SetBasicAuth("admin", "secret")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusNotFound, rr.Code)
}
