package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgNoCatalog         = "no reward catalog loaded"
	ErrMsgNoCategories      = "catalog has no categories"
	ErrMsgInvalidCatalog    = "invalid reward catalog"
	ErrMsgDuplicateItemID   = "duplicate item id"
	ErrMsgRemoteCatalog     = "remote catalog unavailable"
	ErrMsgUnsupportedFormat = "unsupported catalog format"

	// Item / stock errors
	ErrMsgItemNotFound    = "item not found"
	ErrMsgInvalidQuantity = "quantity must be positive"
	ErrMsgOutOfStock      = "item out of stock"

	// Reservation errors
	ErrMsgReservationUnknown  = "reservation not found or expired"
	ErrMsgReservationConsumed = "reservation already committed"

	// Persistence errors
	ErrMsgStoreUnavailable = "stock store unavailable"
	ErrMsgUnknownBackend   = "unknown store backend"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Catalog errors
	ErrNoCatalog         = errors.New(ErrMsgNoCatalog)
	ErrNoCategories      = errors.New(ErrMsgNoCategories)
	ErrInvalidCatalog    = errors.New(ErrMsgInvalidCatalog)
	ErrDuplicateItemID   = errors.New(ErrMsgDuplicateItemID)
	ErrRemoteCatalog     = errors.New(ErrMsgRemoteCatalog)
	ErrUnsupportedFormat = errors.New(ErrMsgUnsupportedFormat)

	// Item / stock errors
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrInvalidQuantity = errors.New(ErrMsgInvalidQuantity)
	ErrOutOfStock      = errors.New(ErrMsgOutOfStock)

	// Reservation errors
	ErrReservationUnknown  = errors.New(ErrMsgReservationUnknown)
	ErrReservationConsumed = errors.New(ErrMsgReservationConsumed)

	// Persistence errors
	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)
	ErrUnknownBackend   = errors.New(ErrMsgUnknownBackend)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
