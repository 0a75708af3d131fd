package purchase

import (
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

// 订单领域错误
// 带ID/状态的错误由New*构造，与同码的哨兵错误errors.Is相等
var (
	// NotFound
	ErrPurchaseNotFound = apperrors.New(apperrors.ErrCodePurchaseNotFound, "purchase not found")
	ErrLineNotFound     = apperrors.New(apperrors.ErrCodeLineNotFound, "line not found")

	// InvalidArgument
	ErrInvalidUserID     = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid user id")
	ErrInvalidPurchaseID = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid purchase id")
	ErrInvalidGameID     = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid game id")
	ErrInvalidLineID     = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid line id")
	ErrInvalidQuantity   = apperrors.New(apperrors.ErrCodeInvalidQuantity, "quantity must be greater than 0")
	ErrCurrencyRequired  = apperrors.New(apperrors.ErrCodeInvalidCurrency, "currency cannot be empty")
	ErrInvalidCurrency   = apperrors.New(apperrors.ErrCodeInvalidCurrency, "currency must be a 3-letter code")
	ErrStatusRequired    = apperrors.New(apperrors.ErrCodeInvalidStatus, "status is required")
	ErrTotalTooLarge     = apperrors.New(apperrors.ErrCodeAmountTooLarge, "purchase total cannot exceed 99999999.99")

	// InvalidState
	ErrNotMutable            = apperrors.New(apperrors.ErrCodePurchaseNotMutable, "cannot modify purchase")
	ErrNotPending            = apperrors.New(apperrors.ErrCodeInvalidPurchaseStatus, "can only mark pending purchases as paid")
	ErrEmptyPurchase         = apperrors.New(apperrors.ErrCodeEmptyPurchase, "cannot mark empty purchase as paid")
	ErrNotPaid               = apperrors.New(apperrors.ErrCodeInvalidPurchaseStatus, "can only ship paid purchases")
	ErrNotShipped            = apperrors.New(apperrors.ErrCodeInvalidPurchaseStatus, "can only deliver shipped purchases")
	ErrCannotCancelDelivered = apperrors.New(apperrors.ErrCodeInvalidPurchaseStatus, "cannot cancel delivered purchase")
)

// NewPurchaseNotFound purchase not found with id: N
func NewPurchaseNotFound(id uint) error {
	return apperrors.Newf(apperrors.ErrCodePurchaseNotFound, "purchase not found with id: %d", id)
}

// NewLineNotFound line not found with id: N
func NewLineNotFound(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeLineNotFound, "line not found with id: %d", id)
}

func newNotMutable(status Status) error {
	return apperrors.Newf(apperrors.ErrCodePurchaseNotMutable, "cannot modify purchase with status: %s", status)
}

func newInvalidCurrency(currency string) error {
	return apperrors.Newf(apperrors.ErrCodeInvalidCurrency, "currency must be a 3-letter code, got %q", currency)
}

func newUnknownStatus(name string) error {
	return apperrors.Newf(apperrors.ErrCodeInvalidStatus, "unknown purchase status: %s", name)
}
