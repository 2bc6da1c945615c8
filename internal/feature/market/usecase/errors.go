package usecase

import "stock_portfolio/internal/shared/apperr"

var (
	// ErrSymbolRequired is returned when a symbol is blank.
	ErrSymbolRequired = apperr.New(apperr.KindValidation, "symbol is required")

	// ErrUnknownSymbol is returned when the provider has no quote for a symbol.
	ErrUnknownSymbol = apperr.New(apperr.KindUpstreamUnavailable, "unknown symbol")

	// ErrNoCandles is returned when the provider reports no candles for the window.
	ErrNoCandles = apperr.New(apperr.KindNoDataAvailable, "no candles for the requested window")
)
