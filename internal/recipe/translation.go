package recipe

import (
	"context"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// translationJobTimeout bounds the detached goroutine independently of any
// request deadline — there is no request left to inherit one from by the
// time this runs.
const translationJobTimeout = 30 * time.Second

// spawnTranslationJob enqueues the async translation job §4.5 requires on
// create/publish when auto_translate is set. The job is detached: it uses
// its own background context so request cancellation never reaches it, and
// any failure only logs — a missing translation row falls back to the
// recipe's default language at read time, it never fails the request that
// triggered it.
func (s *Service) spawnTranslationJob(recipeID kernel.RecipeID, tenantID kernel.TenantID, defaultLang kernel.Language, nameDefault, instructionsDefault string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("recipe_id", recipeID.String()).Str("tenant_id", tenantID.String()).Msg("recipe translation job panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), translationJobTimeout)
		defer cancel()

		result, err := s.llm.TranslateRecipe(ctx, nameDefault, instructionsDefault)
		if err != nil {
			s.log.Warn().Err(err).Str("recipe_id", recipeID.String()).Msg("recipe translation job failed, languages left missing")
			return
		}

		byLanguage := map[kernel.Language]struct{ name, instructions string }{
			kernel.LanguagePL: {result.NamePL, result.InstructionsPL},
			kernel.LanguageRU: {result.NameRU, result.InstructionsRU},
			kernel.LanguageUK: {result.NameUK, result.InstructionsUK},
		}

		written := 0
		for _, lang := range kernel.SupportedLanguages {
			if lang == defaultLang {
				continue
			}
			text := byLanguage[lang]
			if text.name == "" || text.instructions == "" {
				s.log.Warn().Str("recipe_id", recipeID.String()).Str("language", string(lang)).Msg("translation missing a field, leaving language row unwritten")
				continue
			}

			t := &domain.RecipeTranslation{
				RecipeID:     recipeID,
				Language:     lang,
				Name:         text.name,
				Instructions: text.instructions,
				Source:       domain.TranslationSourceAI,
			}
			if err := s.repo.UpsertRecipeTranslation(ctx, t); err != nil {
				s.log.Warn().Err(err).Str("recipe_id", recipeID.String()).Str("language", string(lang)).Msg("failed to persist recipe translation")
				continue
			}
			written++
		}

		s.log.Info().Str("recipe_id", recipeID.String()).Int("languages_written", written).Msg("recipe translation job completed")
	}()
}
