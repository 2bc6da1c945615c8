// Package dto mirrors Finnhub's JSON response shapes.
package dto

import "encoding/json"

// QuoteResponse is the body of GET /quote. Unknown symbols come back with
// every field zero; d and dp are null in that case.
type QuoteResponse struct {
	Current       json.Number `json:"c"`
	Change        json.Number `json:"d"`
	PercentChange json.Number `json:"dp"`
	High          json.Number `json:"h"`
	Low           json.Number `json:"l"`
	Open          json.Number `json:"o"`
	PreviousClose json.Number `json:"pc"`
	Timestamp     int64       `json:"t"`
	Volume        json.Number `json:"v"`
}

// CandleResponse is the body of GET /stock/candle. Arrays are parallel.
type CandleResponse struct {
	Status string        `json:"s"`
	Close  []json.Number `json:"c"`
	High   []json.Number `json:"h"`
	Low    []json.Number `json:"l"`
	Open   []json.Number `json:"o"`
	Time   []int64       `json:"t"`
	Volume []json.Number `json:"v"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Count  int            `json:"count"`
	Result []SymbolResult `json:"result"`
}

// SymbolResult is one row of /search or /stock/symbol.
type SymbolResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// ErrorResponse is returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
