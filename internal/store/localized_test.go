package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLocalizedIn(t *testing.T) {
	l := Localized{En: "Decking", Ar: "أرضيات"}
	if got := l.In("en"); got != "Decking" {
		t.Errorf("In(en) = %q", got)
	}
	if got := l.In("ar"); got != "أرضيات" {
		t.Errorf("In(ar) = %q", got)
	}
	empty := Localized{En: "Decking"}
	if got := empty.In("ar"); got != "Decking" {
		t.Errorf("In(ar) with empty Arabic should fall back to English, got %q", got)
	}
}

func TestSubcategoryDisplayNameLegacyFallback(t *testing.T) {
	// Old documents carry only the flat fields.
	legacy := Subcategory{LegacyEn: "Infinity", LegacyAr: "إنفينيتي"}
	name := legacy.DisplayName()
	if name.En != "Infinity" || name.Ar != "إنفينيتي" {
		t.Errorf("legacy fallback got %+v", name)
	}

	// The bilingual object wins when present.
	both := Subcategory{
		Name:     Localized{En: "Infinity Plus"},
		LegacyEn: "Infinity",
		LegacyAr: "إنفينيتي",
	}
	name = both.DisplayName()
	if name.En != "Infinity Plus" {
		t.Errorf("bilingual field should be preferred, got %q", name.En)
	}
	if name.Ar != "إنفينيتي" {
		t.Errorf("missing Arabic should fall back to legacy flat field, got %q", name.Ar)
	}
}

func TestCategoryImageIDsCollectsOnlyPresentRefs(t *testing.T) {
	logo := primitive.NewObjectID()
	benefit := primitive.NewObjectID()
	swatch := primitive.NewObjectID()

	c := Category{Subcategories: []Subcategory{
		{
			LogoID:   &logo,
			Benefits: []Benefit{{ImageID: &benefit}, {}},
			Colors:   []Color{{ImageID: &swatch}, {}},
		},
		{}, // no images at all
	}}

	ids := c.ImageIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 image ids, got %d", len(ids))
	}

	empty := Category{Subcategories: []Subcategory{{}, {}}}
	if got := empty.ImageIDs(); len(got) != 0 {
		t.Fatalf("category without logos must yield no image ids, got %d", len(got))
	}
}
