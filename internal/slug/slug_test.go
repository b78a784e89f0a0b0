package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Composite Decking!!":   "composite-decking",
		"  WPC  Flooring ":      "wpc-flooring",
		"Infinity":              "infinity",
		"Pergolas & Shades":     "pergolas-shades",
		"--already-sluggy--":    "already-sluggy",
		"Déck":                  "d-ck",
		"A  B   C":              "a-b-c",
		"!!!":                   "",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{"Composite Decking!!", "Wall Cladding", "3D Panels", "outdoor--furniture"}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Errorf("Make not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"composite-decking", "infinity", "a1-b2"}
	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-leading", "trailing-", "double--dash", "UPPER", "with space"}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}
