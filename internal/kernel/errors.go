package kernel

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every layer above the repository maps its failures
// onto one of these with errors.Is; the HTTP boundary is the only place that
// turns a kind into a status code.
var (
	ErrValidation       = errors.New("validation error")
	ErrAuthentication   = errors.New("authentication error")
	ErrAuthorization    = errors.New("authorization error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamError     = errors.New("upstream error")
	ErrInternal          = errors.New("internal error")
)

// ValidationError wraps ErrValidation with a caller-facing message.
func ValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func AuthenticationError(message string) error {
	return fmt.Errorf("%w: %s", ErrAuthentication, message)
}

func AuthorizationError(message string) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, message)
}

func NotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

func ConflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// InsufficientStockErr reports which tenant ingredient could not satisfy a
// FIFO consumption request: the quantity the sale required versus the
// quantity its batches actually held. It wraps ErrInsufficientStock so
// errors.Is keeps working, and errors.As recovers the ingredient/needed/have
// triple the boundary needs for the InsufficientStock response body.
type InsufficientStockErr struct {
	Ingredient string
	Needed     Quantity
	Have       Quantity
}

func (e *InsufficientStockErr) Error() string {
	return fmt.Sprintf("%s: needed %s, have %s", e.Ingredient, e.Needed.String(), e.Have.String())
}

func (e *InsufficientStockErr) Unwrap() error { return ErrInsufficientStock }

// InsufficientStockError builds the typed shortfall error for ingredientName,
// given the quantity a FIFO consumption required and what its batches held.
func InsufficientStockError(ingredientName string, needed, have Quantity) error {
	return &InsufficientStockErr{Ingredient: ingredientName, Needed: needed, Have: have}
}

func UpstreamTimeoutError(upstream string) error {
	return fmt.Errorf("%w: %s", ErrUpstreamTimeout, upstream)
}

func UpstreamErrorf(upstream string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrUpstreamError, upstream, fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}
