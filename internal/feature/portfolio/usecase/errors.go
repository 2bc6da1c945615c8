package usecase

import "stock_portfolio/internal/shared/apperr"

var (
	ErrUserNotFound      = apperr.ErrUserNotFound
	ErrPositionNotFound  = apperr.ErrPositionNotFound
	ErrDuplicatePosition = apperr.ErrDuplicatePosition

	ErrSymbolRequired  = apperr.New(apperr.KindValidation, "symbol is required")
	ErrSymbolTooLong   = apperr.New(apperr.KindValidation, "symbol is too long")
	ErrNameTooLong     = apperr.New(apperr.KindValidation, "company name is too long")
	ErrInvalidPrice    = apperr.New(apperr.KindValidation, "price must be greater than zero")
	ErrPricePrecision  = apperr.New(apperr.KindValidation, "price has more than 8 decimal places")
	ErrPriceTooLarge   = apperr.New(apperr.KindValidation, "price is too large")
	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "quantity must be at least 1")
	ErrPositionLimit   = apperr.New(apperr.KindValidation, "maximum number of positions reached")
)
