package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// categorySlugAlias maps the classification step's short slug vocabulary
// onto the catalog_categories table's own slugs. Most are direct; "meat"
// and "seafood" are shorthand the model tends to produce on its own.
var categorySlugAlias = map[string]string{
	"meat":       "meat_and_poultry",
	"seafood":    "fish_and_seafood",
	"dairy":      "dairy",
	"vegetables": "vegetables",
	"fruit":      "fruit",
	"grains":     "grains",
	"spices":     "spices",
	"other":      "other",
}

const fallbackCategorySlug = "vegetables"

// OnboardIngredientInput is a single free-text ingredient name plus optional
// overrides, the pipeline's external contract.
type OnboardIngredientInput struct {
	NameInput     string
	AutoTranslate bool
	CategoryID    *kernel.CatalogCategoryID
	Unit          *domain.Unit
	NameEN        *string
	NamePL        *string
	NameRU        *string
	NameUK        *string
}

// onboardIngredient runs the universal-input pipeline (§4.3) end to end:
// English-likeness check, normalize, duplicate check, dictionary lookup,
// translate, classify, persist. At most one LLM round trip per step, and
// steps are skipped whenever their result is already known or overridden.
func (s *AdminService) onboardIngredient(ctx context.Context, in OnboardIngredientInput) (*domain.CatalogIngredient, error) {
	rawInput := strings.TrimSpace(in.NameInput)
	if rawInput == "" {
		return nil, kernel.ValidationError("ingredient name is required")
	}

	var nameEN string
	if in.NameEN != nil && strings.TrimSpace(*in.NameEN) != "" {
		nameEN = strings.TrimSpace(*in.NameEN)
	} else {
		resolved, err := s.resolveCanonicalName(ctx, rawInput)
		if err != nil {
			return nil, err
		}
		nameEN = resolved
	}

	dedupKey := repository.NormalizeKey(nameEN)
	if existing, err := s.repo.FindActiveCatalogIngredientByNormalizedName(ctx, dedupKey); err == nil {
		return nil, kernel.ConflictError("an ingredient with this name already exists: " + existing.NameEN)
	} else if !errors.Is(err, kernel.ErrNotFound) {
		return nil, err
	}

	namePL, nameRU, nameUK, err := s.resolveTranslations(ctx, in, nameEN, dedupKey)
	if err != nil {
		return nil, err
	}

	categoryID, unit, err := s.resolveClassification(ctx, in, nameEN)
	if err != nil {
		return nil, err
	}

	ing := &domain.CatalogIngredient{
		CategoryID:  categoryID,
		NameEN:      nameEN,
		NamePL:      namePL,
		NameRU:      nameRU,
		NameUK:      nameUK,
		DefaultUnit: unit,
		IsActive:    true,
	}
	if err := s.repo.CreateCatalogIngredient(ctx, ing); err != nil {
		return nil, err
	}

	s.log.Info().Str("ingredient_id", ing.ID.String()).Str("name_en", nameEN).Msg("catalog ingredient onboarded")
	return ing, nil
}

// resolveCanonicalName implements pipeline steps 1-2: skip the LLM entirely
// for already-ASCII input, otherwise ask it for the canonical English form.
// A normalize failure is never recovered here — a caller that cannot even
// name the ingredient has nothing safe to fall back to.
func (s *AdminService) resolveCanonicalName(ctx context.Context, rawInput string) (string, error) {
	if repository.LooksASCII(rawInput) {
		return rawInput, nil
	}

	nameEN, err := s.llm.NormalizeIngredientName(ctx, rawInput)
	if err != nil {
		return "", kernel.InternalErrorf("could not normalize ingredient name: %s", err.Error())
	}
	nameEN = strings.TrimSpace(nameEN)
	if nameEN == "" {
		return "", kernel.InternalErrorf("normalize step returned an empty name for %q", rawInput)
	}
	return nameEN, nil
}

// resolveTranslations implements pipeline steps 4-5: dictionary lookup
// first (free), LLM translate on miss. Any override fully short-circuits
// both. A translate failure is not recovered — unlike classification, a
// garbage translation is worse than no ingredient at all.
func (s *AdminService) resolveTranslations(ctx context.Context, in OnboardIngredientInput, nameEN, dedupKey string) (pl, ru, uk string, err error) {
	if in.NamePL != nil || in.NameRU != nil || in.NameUK != nil {
		return derefOr(in.NamePL, nameEN), derefOr(in.NameRU, nameEN), derefOr(in.NameUK, nameEN), nil
	}

	if entry, lookupErr := s.repo.GetDictionaryEntry(ctx, dedupKey); lookupErr == nil {
		return entry.NamePL, entry.NameRU, entry.NameUK, nil
	} else if !errors.Is(lookupErr, kernel.ErrNotFound) {
		return "", "", "", lookupErr
	}

	if !in.AutoTranslate {
		return nameEN, nameEN, nameEN, nil
	}

	result, translateErr := s.llm.TranslateIngredientName(ctx, nameEN)
	if translateErr != nil {
		return "", "", "", kernel.InternalErrorf("could not translate ingredient name: %s", translateErr.Error())
	}

	pl = orFallback(result.NamePL, nameEN)
	ru = orFallback(result.NameRU, nameEN)
	uk = orFallback(result.NameUK, nameEN)

	entry := &domain.DictionaryEntry{Key: dedupKey, NameEN: nameEN, NamePL: pl, NameRU: ru, NameUK: uk}
	if err := s.repo.UpsertDictionaryEntry(ctx, entry); err != nil {
		return "", "", "", err
	}

	// Re-read by key: if a concurrent writer won the ON CONFLICT DO NOTHING
	// race, every caller converges on whichever row the database kept.
	reread, err := s.repo.GetDictionaryEntry(ctx, dedupKey)
	if err != nil {
		return "", "", "", err
	}
	return reread.NamePL, reread.NameRU, reread.NameUK, nil
}

// resolveClassification implements pipeline step 6. Unlike normalize and
// translate, classification failure degrades gracefully to a safe default
// instead of rejecting the whole onboarding — the entity still materializes,
// the failure is only logged.
func (s *AdminService) resolveClassification(ctx context.Context, in OnboardIngredientInput, nameEN string) (kernel.CatalogCategoryID, domain.Unit, error) {
	if in.CategoryID != nil && in.Unit != nil {
		return *in.CategoryID, *in.Unit, nil
	}

	categorySlug := fallbackCategorySlug
	unit := domain.UnitPiece

	result, err := s.llm.ClassifyIngredient(ctx, nameEN)
	if err != nil {
		s.log.Warn().Err(err).Str("name_en", nameEN).Msg("ingredient classification failed, using fallback category and unit")
	} else {
		if alias, ok := categorySlugAlias[strings.ToLower(strings.TrimSpace(result.CategorySlug))]; ok {
			categorySlug = alias
		} else {
			s.log.Warn().Str("category_slug", result.CategorySlug).Msg("unrecognized classification category slug, using fallback")
		}
		unit = domain.ParseUnitLoose(result.Unit)
	}

	if in.CategoryID != nil {
		return *in.CategoryID, unit, nil
	}
	if in.Unit != nil {
		unit = *in.Unit
	}

	category, err := s.repo.GetCatalogCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return kernel.CatalogCategoryID{}, "", kernel.InternalErrorf("could not resolve category %q: %s", categorySlug, err.Error())
	}
	return category.ID, unit, nil
}

func derefOr(s *string, fallback string) string {
	if s != nil && strings.TrimSpace(*s) != "" {
		return *s
	}
	return fallback
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
