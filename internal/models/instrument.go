package models

import "github.com/shopspring/decimal"

const (
	KindAsset    = "asset"
	KindCurrency = "currency"
)

// Instrument is the shared capability of every tracked price-bearing record
// (assets and currencies). Alerting and prediction are written once against
// this interface instead of per concrete kind.
type Instrument interface {
	InstrumentTicker() string
	InstrumentName() string
	CurrentQuote() decimal.Decimal
	TargetQuote() *decimal.Decimal
	AlertEnabled() bool
	Kind() string
}
