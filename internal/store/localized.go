package store

// Localized is a bilingual value. Every user-facing text field in the catalog
// carries both languages; Arabic falls back to English when empty.
type Localized struct {
	En string `bson:"en" json:"en"`
	Ar string `bson:"ar" json:"ar"`
}

func (l Localized) IsZero() bool {
	return l.En == "" && l.Ar == ""
}

// In returns the value for the given language code ("en" or "ar"),
// falling back to English.
func (l Localized) In(lang string) string {
	if lang == "ar" && l.Ar != "" {
		return l.Ar
	}
	return l.En
}

// orFlat prefers the bilingual object and falls back to legacy flat en/ar
// sibling fields. Old documents were written with only the flat fields; new
// code never writes them, so reads normalize here.
func (l Localized) orFlat(en, ar string) Localized {
	out := l
	if out.En == "" {
		out.En = en
	}
	if out.Ar == "" {
		out.Ar = ar
	}
	return out
}
