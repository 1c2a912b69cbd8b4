package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// StockRoomSummary aggregates the items held in one stock room.
type StockRoomSummary struct {
	StockRoom StockRoom       `json:"stockRoom"`
	Items     int             `json:"items"`
	Units     int             `json:"units"`
	Value     decimal.Decimal `json:"value"`
}

// InventorySummary is the per-room breakdown of an inventory snapshot.
type InventorySummary struct {
	Rooms       []StockRoomSummary `json:"rooms"`
	TotalItems  int                `json:"totalItems"`
	TotalUnits  int                `json:"totalUnits"`
	TotalValue  decimal.Decimal    `json:"totalValue"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// MarshalJSON writes the value as a JSON number.
func (r StockRoomSummary) MarshalJSON() ([]byte, error) {
	type plain StockRoomSummary
	return json.Marshal(struct {
		plain
		Value json.Number `json:"value"`
	}{plain(r), jsonNumber(r.Value)})
}

// MarshalJSON writes the total value as a JSON number.
func (s InventorySummary) MarshalJSON() ([]byte, error) {
	type plain InventorySummary
	return json.Marshal(struct {
		plain
		TotalValue json.Number `json:"totalValue"`
	}{plain(s), jsonNumber(s.TotalValue)})
}
