package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"tashteeb/internal/store"
)

func pendingFile(name string) *PendingUpload {
	return &PendingUpload{
		Filename: name,
		Payload:  []byte("fake image bytes for " + name),
		Preview:  "data:image/png;base64,AAAA",
	}
}

func TestSubmitUploadsInOrder(t *testing.T) {
	d := CategoryDraft{
		Name: store.Localized{En: "Decking"},
		Subcategories: []SubcategoryDraft{
			{
				ID:          uuid.New(),
				PendingLogo: pendingFile("logo-a.png"),
				Benefits: []BenefitDraft{
					{ID: uuid.New(), Pending: pendingFile("benefit-a1.png")},
				},
				Colors: []ColorDraft{
					{ID: uuid.New(), Pending: pendingFile("color-a1.png")},
				},
			},
			{
				ID:          uuid.New(),
				PendingLogo: pendingFile("logo-b.png"),
			},
		},
	}

	var order []string
	upload := func(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(int)) (string, error) {
		order = append(order, filename)
		onProgress(100)
		return "ref-" + filename, nil
	}

	payloads, results, err := Submit(context.Background(), d, upload, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"logo-a.png", "benefit-a1.png", "color-a1.png", "logo-b.png"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Fatalf("upload order = %v, want %v", order, want)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if payloads[0].LogoID != "ref-logo-a.png" {
		t.Errorf("logo ref not resolved: %q", payloads[0].LogoID)
	}
	if payloads[0].Benefits[0].ImageID != "ref-benefit-a1.png" {
		t.Errorf("benefit ref not resolved: %q", payloads[0].Benefits[0].ImageID)
	}
	if payloads[0].Colors[0].ImageID != "ref-color-a1.png" {
		t.Errorf("color ref not resolved: %q", payloads[0].Colors[0].ImageID)
	}
}

func TestSubmitToleratesPartialFailure(t *testing.T) {
	sub := SubcategoryDraft{ID: uuid.New()}
	for i := 1; i <= 3; i++ {
		sub.Benefits = append(sub.Benefits, BenefitDraft{
			ID:      uuid.New(),
			Pending: pendingFile(fmt.Sprintf("benefit-%d.png", i)),
		})
	}
	sub.Benefits[1].Ref = "ref-previous"

	boom := errors.New("network down")
	upload := func(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(int)) (string, error) {
		if filename == "benefit-2.png" {
			return "", boom
		}
		return "ref-" + filename, nil
	}

	payloads, results, err := Submit(context.Background(), CategoryDraft{Subcategories: []SubcategoryDraft{sub}}, upload, nil)
	if err != nil {
		t.Fatal(err)
	}

	// #1 and #3 resolved, #2 keeps its previous reference.
	if payloads[0].Benefits[0].ImageID != "ref-benefit-1.png" {
		t.Errorf("benefit 1 = %q", payloads[0].Benefits[0].ImageID)
	}
	if payloads[0].Benefits[1].ImageID != "ref-previous" {
		t.Errorf("failed benefit should keep previous ref, got %q", payloads[0].Benefits[1].ImageID)
	}
	if payloads[0].Benefits[2].ImageID != "ref-benefit-3.png" {
		t.Errorf("benefit 3 = %q", payloads[0].Benefits[2].ImageID)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if !errors.Is(r.Err, boom) {
				t.Errorf("unexpected error: %v", r.Err)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly one failed result, got %d", failed)
	}
}

func TestSubmitProgressKeyedByItemID(t *testing.T) {
	benefitID := uuid.New()
	d := CategoryDraft{Subcategories: []SubcategoryDraft{{
		ID:       uuid.New(),
		Benefits: []BenefitDraft{{ID: benefitID, Pending: pendingFile("b.png")}},
	}}}

	upload := func(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(int)) (string, error) {
		onProgress(50)
		onProgress(100)
		return "ref", nil
	}

	var seen []Progress
	_, _, err := Submit(context.Background(), d, upload, func(p Progress) { seen = append(seen, p) })
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 progress events, got %d", len(seen))
	}
	for _, p := range seen {
		if p.ItemID != benefitID {
			t.Errorf("progress keyed by %v, want %v", p.ItemID, benefitID)
		}
		if p.Kind != ItemBenefit {
			t.Errorf("kind = %v", p.Kind)
		}
	}
}

func TestPayloadExcludesLocalOnlyFields(t *testing.T) {
	d := CategoryDraft{Subcategories: []SubcategoryDraft{{
		ID:          uuid.New(),
		PendingLogo: pendingFile("logo.png"),
		Colors:      []ColorDraft{{ID: uuid.New(), Pending: pendingFile("c.png")}},
	}}}

	upload := func(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(int)) (string, error) {
		return "ref-" + filename, nil
	}

	payloads, _, err := Submit(context.Background(), d, upload, nil)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(payloads)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	for _, forbidden := range []string{"data:image", "Payload", "Preview", "Pending", "fake image bytes"} {
		if strings.Contains(body, forbidden) {
			t.Errorf("wire payload leaks local-only field %q: %s", forbidden, body)
		}
	}
	if !strings.Contains(body, "ref-logo.png") {
		t.Errorf("payload missing resolved reference: %s", body)
	}
}

func TestSubmitStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := CategoryDraft{Subcategories: []SubcategoryDraft{{ID: uuid.New(), PendingLogo: pendingFile("x.png")}}}
	_, _, err := Submit(ctx, d, func(context.Context, string, *bytes.Reader, func(int)) (string, error) {
		t.Fatal("upload must not run after cancellation")
		return "", nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
