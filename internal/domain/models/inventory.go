package models

import (
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// StockRoom is the physical location label attached to an inventory item.
type StockRoom string

const (
	StockRoom1 StockRoom = "Stock Room 1"
	StockRoom2 StockRoom = "Stock Room 2"
	StockRoom3 StockRoom = "Stock Room 3"
	StockRoom4 StockRoom = "Stock Room 4"
)

// DefaultStockRoom is preselected for new items.
const DefaultStockRoom = StockRoom1

// AllStockRooms lists the known stock rooms in display order.
func AllStockRooms() []StockRoom {
	return []StockRoom{StockRoom1, StockRoom2, StockRoom3, StockRoom4}
}

// Valid reports whether r is one of the known stock rooms.
func (r StockRoom) Valid() bool {
	for _, known := range AllStockRooms() {
		if r == known {
			return true
		}
	}
	return false
}

// InventoryItem mirrors an item as returned by the inventory API.
type InventoryItem struct {
	ID        string          `json:"_id"`
	Revision  string          `json:"_rev"`
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	StockRoom StockRoom       `json:"stockRoom"`
}

// MarshalJSON writes the price as a JSON number, the form the inventory API uses.
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type plain InventoryItem
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(i), jsonNumber(i.Price)})
}

// NewItemDraft is the unsaved input for an item creation.
type NewItemDraft struct {
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	StockRoom StockRoom       `json:"stockRoom"`
}

// MarshalJSON writes the price as a JSON number.
func (d NewItemDraft) MarshalJSON() ([]byte, error) {
	type plain NewItemDraft
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(d), jsonNumber(d.Price)})
}

// DefaultItemDraft returns the blank form state used after every successful add.
func DefaultItemDraft() NewItemDraft {
	return NewItemDraft{
		Name:      "",
		Stock:     0,
		Price:     decimal.Zero,
		StockRoom: DefaultStockRoom,
	}
}

var errNegativePrice = errors.New("must be no less than 0")

// Validate checks the fields the client can judge locally. Names are left to the server.
func (d NewItemDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Stock, validation.Min(0)),
		validation.Field(&d.Price, validation.By(func(value interface{}) error {
			if price, ok := value.(decimal.Decimal); ok && price.IsNegative() {
				return errNegativePrice
			}
			return nil
		})),
		validation.Field(&d.StockRoom, validation.Required, validation.In(
			StockRoom1, StockRoom2, StockRoom3, StockRoom4,
		)),
	)
}

// ReduceStockRequest is the body of a reduce-stock call.
type ReduceStockRequest struct {
	Quantity int    `json:"quantity"`
	Revision string `json:"rev"`
}

// jsonNumber renders d without quotes. decimal quotes by default and its
// switch for that is process-wide.
func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
