package draft

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	"tashteeb/internal/store"
)

// BenefitPayload and friends are the wire shape of the JSON-serialized
// `subcategories` field of the category update form. Only fields the backend
// accepts appear here; pending files and previews do not.
type BenefitPayload struct {
	ImageID     string          `json:"imageId,omitempty"`
	Description store.Localized `json:"description"`
}

type ColorPayload struct {
	ImageID string `json:"imageId,omitempty"`
}

type SubcategoryPayload struct {
	ID                string           `json:"id,omitempty"`
	Name              store.Localized  `json:"name"`
	Description       store.Localized  `json:"description"`
	Slogan            store.Localized  `json:"slogan"`
	LogoID            string           `json:"logoId,omitempty"`
	Benefits          []BenefitPayload `json:"benefits,omitempty"`
	Colors            []ColorPayload   `json:"colors,omitempty"`
	HardcodedPageSlug string           `json:"hardcodedPageSlug,omitempty"`
}

// ItemKind names which image slot an upload result belongs to.
type ItemKind string

const (
	ItemLogo    ItemKind = "logo"
	ItemBenefit ItemKind = "benefit"
	ItemColor   ItemKind = "color"
)

// UploadResult records the outcome of one pending upload. Err is nil on
// success; on failure Ref holds whatever reference the item had before, so
// callers can tell "kept the old image" from "ended up with none".
type UploadResult struct {
	ItemID uuid.UUID
	Kind   ItemKind
	Ref    string
	Err    error
}

// Progress reports byte-level progress for one item, identified by its
// stable draft id rather than a list index.
type Progress struct {
	ItemID  uuid.UUID
	Kind    ItemKind
	Percent int
}

// UploadFunc uploads one file and returns the image reference. onProgress
// receives integer percentages as bytes move.
type UploadFunc func(ctx context.Context, filename string, payload *bytes.Reader, onProgress func(percent int)) (string, error)

// Submit resolves every pending upload in the draft, strictly in order:
// each subcategory's logo, then its benefits, then its colors, then the next
// subcategory. Exactly one upload is in flight at a time. Individual upload
// failures are recorded and tolerated — the run continues and the failing
// item keeps its previous reference (possibly none). The only error returned
// is context cancellation.
//
// The returned payloads contain resolved references only; they are what the
// caller serializes into the `subcategories` form field.
func Submit(ctx context.Context, d CategoryDraft, upload UploadFunc, onProgress func(Progress)) ([]SubcategoryPayload, []UploadResult, error) {
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	payloads := make([]SubcategoryPayload, 0, len(d.Subcategories))
	var results []UploadResult

	for si := range d.Subcategories {
		sub := d.Subcategories[si]

		if err := ctx.Err(); err != nil {
			return nil, results, err
		}

		if sub.PendingLogo != nil {
			ref, res := uploadOne(ctx, upload, sub.ID, ItemLogo, sub.PendingLogo, sub.LogoRef, onProgress)
			sub.LogoRef = ref
			results = append(results, res)
		}

		for bi := range sub.Benefits {
			b := &sub.Benefits[bi]
			if b.Pending == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, results, err
			}
			ref, res := uploadOne(ctx, upload, b.ID, ItemBenefit, b.Pending, b.Ref, onProgress)
			b.Ref = ref
			results = append(results, res)
		}

		for ci := range sub.Colors {
			c := &sub.Colors[ci]
			if c.Pending == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, results, err
			}
			ref, res := uploadOne(ctx, upload, c.ID, ItemColor, c.Pending, c.Ref, onProgress)
			c.Ref = ref
			results = append(results, res)
		}

		payloads = append(payloads, buildPayload(sub))
	}

	return payloads, results, nil
}

// uploadOne performs a single upload. On failure it returns the previous
// reference unchanged.
func uploadOne(ctx context.Context, upload UploadFunc, itemID uuid.UUID, kind ItemKind, pending *PendingUpload, previousRef string, onProgress func(Progress)) (string, UploadResult) {
	ref, err := upload(ctx, pending.Filename, bytes.NewReader(pending.Payload), func(percent int) {
		onProgress(Progress{ItemID: itemID, Kind: kind, Percent: percent})
	})
	if err != nil {
		return previousRef, UploadResult{ItemID: itemID, Kind: kind, Ref: previousRef, Err: err}
	}
	return ref, UploadResult{ItemID: itemID, Kind: kind, Ref: ref}
}

func buildPayload(sub SubcategoryDraft) SubcategoryPayload {
	p := SubcategoryPayload{
		ID:                sub.DocID,
		Name:              sub.Name,
		Description:       sub.Description,
		Slogan:            sub.Slogan,
		LogoID:            sub.LogoRef,
		HardcodedPageSlug: sub.HardcodedPageSlug,
	}
	for _, b := range sub.Benefits {
		p.Benefits = append(p.Benefits, BenefitPayload{ImageID: b.Ref, Description: b.Description})
	}
	for _, c := range sub.Colors {
		p.Colors = append(p.Colors, ColorPayload{ImageID: c.Ref})
	}
	return p
}
