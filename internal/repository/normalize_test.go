package repository

import "testing"

func TestNormalizeKeyLowersAndTrims(t *testing.T) {
	cases := map[string]string{
		"  Milk  ": "milk",
		"MILK":     "milk",
		"Milk":     "milk",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeKeyCollidesAcrossLanguageSpellings(t *testing.T) {
	// The pipeline's duplicate check compares canonical English forms, so
	// this only guarantees the key function itself is stable — the actual
	// Russian/Polish/English collision happens after LLM normalization, not
	// inside NormalizeKey.
	if NormalizeKey("Milk") != NormalizeKey(" milk ") {
		t.Fatalf("expected normalized keys to match regardless of whitespace/case")
	}
}

func TestLooksASCIITrueForPlainEnglish(t *testing.T) {
	if !LooksASCII("Milk") {
		t.Fatalf("expected ASCII input to be detected as English-like")
	}
	if !LooksASCII("Whole Milk 2%") {
		t.Fatalf("expected punctuation/digits to still count as ASCII")
	}
}

func TestLooksASCIIFalseForCyrillic(t *testing.T) {
	if LooksASCII("Молоко") {
		t.Fatalf("expected Cyrillic input to not be ASCII")
	}
}

func TestLooksASCIIFalseForPolishDiacritics(t *testing.T) {
	if LooksASCII("Śmietana") {
		t.Fatalf("expected accented input to not be ASCII")
	}
}

func TestSlugifyBasic(t *testing.T) {
	if got := Slugify("My Restaurant"); got != "my-restaurant" {
		t.Fatalf("expected my-restaurant, got %q", got)
	}
}

func TestSlugifyStripsAccentsAndCollapsesHyphens(t *testing.T) {
	if got := Slugify("Café   Déjà Vu!!"); got != "cafe-deja-vu" {
		t.Fatalf("expected cafe-deja-vu, got %q", got)
	}
}

func TestSlugifyTrimsLeadingTrailingHyphens(t *testing.T) {
	if got := Slugify("  -Restaurant-  "); got != "restaurant" {
		t.Fatalf("expected restaurant, got %q", got)
	}
}
