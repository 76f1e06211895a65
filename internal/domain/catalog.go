package domain

import "github.com/iogar-platform/kitchenledger/internal/kernel"

// Unit is a measurement unit a quantity is expressed in. The pipeline
// (§4.3-equivalent classification) always resolves a new catalog ingredient
// to one of these; tenants may additionally record a CustomUnit label for
// display without changing the underlying arithmetic unit.
type Unit string

const (
	UnitGram      Unit = "g"
	UnitKilogram  Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter     Unit = "l"
	UnitPiece     Unit = "piece"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPiece:
		return true
	default:
		return false
	}
}

// unitAliases tolerates the looser vocabulary an admin or an LLM response
// might use, normalizing it to a canonical Unit.
var unitAliases = map[string]Unit{
	"g": UnitGram, "gram": UnitGram, "grams": UnitGram, "gramo": UnitGram,
	"kg": UnitKilogram, "kilo": UnitKilogram, "kilogram": UnitKilogram, "kilograms": UnitKilogram,
	"ml": UnitMilliliter, "milliliter": UnitMilliliter, "milliliters": UnitMilliliter, "mililitro": UnitMilliliter,
	"l": UnitLiter, "liter": UnitLiter, "liters": UnitLiter, "litre": UnitLiter,
	"piece": UnitPiece, "pieces": UnitPiece, "unit": UnitPiece, "units": UnitPiece, "un": UnitPiece, "pc": UnitPiece,
}

// ParseUnitLoose resolves a free-form unit label (admin input or an LLM
// classification response) to a canonical Unit, falling back to UnitPiece
// when nothing matches — the same graceful-degrade discipline the
// classification step of the ingredient pipeline uses end to end.
func ParseUnitLoose(raw string) Unit {
	if u, ok := unitAliases[normalizeUnitKey(raw)]; ok {
		return u
	}
	return UnitPiece
}

func normalizeUnitKey(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' || c == '.' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// CatalogCategory groups catalog ingredients for browsing; names are
// localized per language with English as the mandatory fallback.
type CatalogCategory struct {
	ID        kernel.CatalogCategoryID `json:"id"`
	Slug      string                   `json:"slug"`
	SortOrder int                      `json:"sort_order"`
	NameEN    string                   `json:"name_en"`
	NamePL    string                   `json:"name_pl,omitempty"`
	NameRU    string                   `json:"name_ru,omitempty"`
	NameUK    string                   `json:"name_uk,omitempty"`
}

// LocalizedName returns the translation for lang, falling back to English
// when the slot is empty — the same fallback rule CatalogIngredient uses.
func (c CatalogCategory) LocalizedName(lang kernel.Language) string {
	switch lang {
	case kernel.LanguagePL:
		if c.NamePL != "" {
			return c.NamePL
		}
	case kernel.LanguageRU:
		if c.NameRU != "" {
			return c.NameRU
		}
	case kernel.LanguageUK:
		if c.NameUK != "" {
			return c.NameUK
		}
	}
	return c.NameEN
}

// CatalogIngredient is a canonical, platform-wide ingredient produced by the
// universal-input pipeline. name_en is the deduplication key
// (LOWER(TRIM(name_en))); the pl/uk/ru slots are never null in storage —
// an empty string means "fall back to name_en" at read time.
type CatalogIngredient struct {
	ID                  kernel.CatalogIngredientID `json:"id"`
	CategoryID          kernel.CatalogCategoryID   `json:"category_id"`
	NameEN              string                     `json:"name_en"`
	NamePL              string                     `json:"name_pl"`
	NameRU              string                     `json:"name_ru"`
	NameUK              string                     `json:"name_uk"`
	DefaultUnit         Unit                       `json:"default_unit"`
	DefaultShelfLifeDays *int                      `json:"default_shelf_life_days,omitempty"`
	Allergens           []string                   `json:"allergens,omitempty"`
	Seasons             []string                   `json:"seasons,omitempty"`
	ImageURL            *string                    `json:"image_url,omitempty"`
	IsActive            bool                       `json:"is_active"`
}

func (c CatalogIngredient) LocalizedName(lang kernel.Language) string {
	switch lang {
	case kernel.LanguagePL:
		if c.NamePL != "" {
			return c.NamePL
		}
	case kernel.LanguageRU:
		if c.NameRU != "" {
			return c.NameRU
		}
	case kernel.LanguageUK:
		if c.NameUK != "" {
			return c.NameUK
		}
	}
	return c.NameEN
}

// DictionaryEntry is a permanent translation cache row, keyed on the same
// normalized English name as CatalogIngredient so the pipeline can reuse a
// translation it already paid an LLM call for.
type DictionaryEntry struct {
	ID     kernel.DictionaryEntryID `json:"id"`
	Key    string                   `json:"key"`
	NameEN string                   `json:"name_en"`
	NamePL string                   `json:"name_pl"`
	NameRU string                   `json:"name_ru"`
	NameUK string                   `json:"name_uk"`
}
