// Package draft models the admin-side editing state for a category and its
// nested subcategories, benefits, and colors. A draft may hold locally
// selected files that have not been uploaded yet; Submit resolves them into
// image references and produces the wire payload the category update
// endpoint accepts. Local-only state (file payloads, previews) never leaves
// this package.
package draft

import (
	"github.com/google/uuid"

	"tashteeb/internal/store"
)

// PendingUpload is a locally selected file waiting to be uploaded, together
// with its locally rendered preview. Mutually exclusive with a resolved
// reference at submit time: a successful upload overwrites the reference and
// clears the pending state.
type PendingUpload struct {
	Filename string
	Payload  []byte
	Preview  string
}

// BenefitDraft is one selling-point entry being edited.
type BenefitDraft struct {
	ID          uuid.UUID
	Ref         string
	Pending     *PendingUpload
	Description store.Localized
}

// ColorDraft is one color swatch entry being edited.
type ColorDraft struct {
	ID      uuid.UUID
	Ref     string
	Pending *PendingUpload
}

// SubcategoryDraft mirrors an embedded subcategory during editing. DocID is
// the persisted identity (empty for a brand-new subcategory); ID is a stable
// local identity used to key progress reporting, so list removal and
// reordering cannot misroute progress updates.
type SubcategoryDraft struct {
	ID                uuid.UUID
	DocID             string
	Name              store.Localized
	LegacyEn          string
	LegacyAr          string
	Slogan            store.Localized
	Description       store.Localized
	LogoRef           string
	PendingLogo       *PendingUpload
	Benefits          []BenefitDraft
	Colors            []ColorDraft
	HardcodedPageSlug string
}

// CategoryDraft is the full editing state for one category.
type CategoryDraft struct {
	DocID         string
	Name          store.Localized
	Description   store.Localized
	Subcategories []SubcategoryDraft
}

// Field identifies a subcategory field for SetField.
type Field string

const (
	FieldName              Field = "name"
	FieldSlogan            Field = "slogan"
	FieldDescription       Field = "description"
	FieldHardcodedPageSlug Field = "hardcodedPageSlug"
)

// SetField returns a new slice with subcategory i's field replaced. All
// other records, and the input slice itself, are left untouched. Writing the
// name also updates the legacy flat field for that language so consumers
// that still read the old shape keep working.
func SetField(subs []SubcategoryDraft, i int, field Field, lang, value string) []SubcategoryDraft {
	if i < 0 || i >= len(subs) {
		return subs
	}

	out := make([]SubcategoryDraft, len(subs))
	copy(out, subs)
	sub := out[i]

	switch field {
	case FieldName:
		sub.Name = setLang(sub.Name, lang, value)
		if lang == "ar" {
			sub.LegacyAr = value
		} else {
			sub.LegacyEn = value
		}
	case FieldSlogan:
		sub.Slogan = setLang(sub.Slogan, lang, value)
	case FieldDescription:
		sub.Description = setLang(sub.Description, lang, value)
	case FieldHardcodedPageSlug:
		sub.HardcodedPageSlug = value
	}

	out[i] = sub
	return out
}

func setLang(l store.Localized, lang, value string) store.Localized {
	if lang == "ar" {
		l.Ar = value
	} else {
		l.En = value
	}
	return l
}

// AddSubcategory appends an empty subcategory record.
func AddSubcategory(subs []SubcategoryDraft) []SubcategoryDraft {
	out := make([]SubcategoryDraft, len(subs), len(subs)+1)
	copy(out, subs)
	return append(out, SubcategoryDraft{ID: uuid.New()})
}

// RemoveSubcategory drops the record at index i.
func RemoveSubcategory(subs []SubcategoryDraft, i int) []SubcategoryDraft {
	if i < 0 || i >= len(subs) {
		return subs
	}
	out := make([]SubcategoryDraft, 0, len(subs)-1)
	out = append(out, subs[:i]...)
	return append(out, subs[i+1:]...)
}

// AddBenefit appends an empty benefit entry to subcategory i.
func AddBenefit(subs []SubcategoryDraft, i int) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		benefits := make([]BenefitDraft, len(sub.Benefits), len(sub.Benefits)+1)
		copy(benefits, sub.Benefits)
		sub.Benefits = append(benefits, BenefitDraft{ID: uuid.New()})
	})
}

// RemoveBenefit drops benefit j from subcategory i.
func RemoveBenefit(subs []SubcategoryDraft, i, j int) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		if j < 0 || j >= len(sub.Benefits) {
			return
		}
		benefits := make([]BenefitDraft, 0, len(sub.Benefits)-1)
		benefits = append(benefits, sub.Benefits[:j]...)
		sub.Benefits = append(benefits, sub.Benefits[j+1:]...)
	})
}

// AddColor appends an empty color entry to subcategory i.
func AddColor(subs []SubcategoryDraft, i int) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		colors := make([]ColorDraft, len(sub.Colors), len(sub.Colors)+1)
		copy(colors, sub.Colors)
		sub.Colors = append(colors, ColorDraft{ID: uuid.New()})
	})
}

// RemoveColor drops color j from subcategory i.
func RemoveColor(subs []SubcategoryDraft, i, j int) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		if j < 0 || j >= len(sub.Colors) {
			return
		}
		colors := make([]ColorDraft, 0, len(sub.Colors)-1)
		colors = append(colors, sub.Colors[:j]...)
		sub.Colors = append(colors, sub.Colors[j+1:]...)
	})
}

// SetLogo attaches a locally selected logo file to subcategory i.
func SetLogo(subs []SubcategoryDraft, i int, pending *PendingUpload) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		sub.PendingLogo = pending
	})
}

// SetBenefitFile attaches a locally selected file to benefit j of
// subcategory i.
func SetBenefitFile(subs []SubcategoryDraft, i, j int, pending *PendingUpload) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		if j < 0 || j >= len(sub.Benefits) {
			return
		}
		benefits := make([]BenefitDraft, len(sub.Benefits))
		copy(benefits, sub.Benefits)
		benefits[j].Pending = pending
		sub.Benefits = benefits
	})
}

// SetColorFile attaches a locally selected file to color j of subcategory i.
func SetColorFile(subs []SubcategoryDraft, i, j int, pending *PendingUpload) []SubcategoryDraft {
	return withSub(subs, i, func(sub *SubcategoryDraft) {
		if j < 0 || j >= len(sub.Colors) {
			return
		}
		colors := make([]ColorDraft, len(sub.Colors))
		copy(colors, sub.Colors)
		colors[j].Pending = pending
		sub.Colors = colors
	})
}

// withSub copies the slice and the addressed record, applies fn to the copy,
// and returns the new slice.
func withSub(subs []SubcategoryDraft, i int, fn func(*SubcategoryDraft)) []SubcategoryDraft {
	if i < 0 || i >= len(subs) {
		return subs
	}
	out := make([]SubcategoryDraft, len(subs))
	copy(out, subs)
	sub := out[i]
	fn(&sub)
	out[i] = sub
	return out
}
