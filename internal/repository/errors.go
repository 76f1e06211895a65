package repository

import "github.com/iogar-platform/kitchenledger/internal/kernel"

// ErrNotFound and ErrConflict alias the kernel taxonomy directly rather than
// defining package-local sentinels: the repository is the lowest layer that
// talks to Postgres, so translating pgx failures onto the same kind every
// service and the HTTP boundary already check with errors.Is saves every
// caller from a redundant translation step of its own.
var (
	ErrNotFound = kernel.ErrNotFound
	ErrConflict = kernel.ErrConflict
)
