package repository

import (
	"context"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// UpsertDictionaryEntry inserts a translation-dictionary row, doing nothing
// on conflict — the dictionary is a permanent cache, never overwritten once
// populated, so a second pipeline run for the same key is a no-op here.
func (s *Store) UpsertDictionaryEntry(ctx context.Context, e *domain.DictionaryEntry) error {
	if e.ID.IsZero() {
		e.ID = kernel.NewDictionaryEntryID()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingredient_dictionary (id, key, name_en, name_pl, name_ru, name_uk)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO NOTHING
	`, e.ID, e.Key, e.NameEN, e.NamePL, e.NameRU, e.NameUK)

	return translateError(err)
}

// GetDictionaryEntry reads back a dictionary row by its normalized key. The
// pipeline calls this immediately after UpsertDictionaryEntry so that a
// concurrent insert from another request always wins consistently: whichever
// row the database kept is what every caller reads, never a stale in-memory
// value from the loser of the race.
func (s *Store) GetDictionaryEntry(ctx context.Context, key string) (*domain.DictionaryEntry, error) {
	var e domain.DictionaryEntry
	err := s.pool.QueryRow(ctx, `
		SELECT id, key, name_en, name_pl, name_ru, name_uk FROM ingredient_dictionary WHERE key = $1
	`, key).Scan(&e.ID, &e.Key, &e.NameEN, &e.NamePL, &e.NameRU, &e.NameUK)
	if err != nil {
		return nil, translateError(err)
	}
	return &e, nil
}
