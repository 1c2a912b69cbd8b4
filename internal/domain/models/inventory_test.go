package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultItemDraft(t *testing.T) {
	draft := DefaultItemDraft()

	assert.Equal(t, "", draft.Name)
	assert.Equal(t, 0, draft.Stock)
	assert.True(t, draft.Price.IsZero())
	assert.Equal(t, StockRoom("Stock Room 1"), draft.StockRoom)
	assert.NoError(t, draft.Validate())
}

func TestStockRoom_Valid(t *testing.T) {
	for _, room := range AllStockRooms() {
		assert.True(t, room.Valid(), room)
	}
	assert.False(t, StockRoom("Stock Room 5").Valid())
	assert.False(t, StockRoom("").Valid())
}

func TestNewItemDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   NewItemDraft
		wantErr bool
	}{
		{"defaults", DefaultItemDraft(), false},
		{"empty name left to server", NewItemDraft{Stock: 3, Price: decimal.NewFromFloat(1.5), StockRoom: StockRoom2}, false},
		{"negative stock", NewItemDraft{Name: "Bolt", Stock: -1, StockRoom: StockRoom1}, true},
		{"negative price", NewItemDraft{Name: "Bolt", Price: decimal.NewFromInt(-2), StockRoom: StockRoom1}, true},
		{"unknown stock room", NewItemDraft{Name: "Bolt", StockRoom: "Basement"}, true},
		{"missing stock room", NewItemDraft{Name: "Bolt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInventoryItem_WireFormat(t *testing.T) {
	raw := `{"_id":"a1","_rev":"r1","name":"Bolt","stock":10,"price":2.5,"stockRoom":"Stock Room 1"}`

	var item InventoryItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, "a1", item.ID)
	assert.Equal(t, "r1", item.Revision)
	assert.Equal(t, 10, item.Stock)
	assert.True(t, decimal.NewFromFloat(2.5).Equal(item.Price))
	assert.Equal(t, StockRoom1, item.StockRoom)

	body, err := json.Marshal(NewItemDraft{Name: "Bolt", Stock: 1, Price: decimal.RequireFromString("2.50"), StockRoom: StockRoom2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bolt","stock":1,"price":2.5,"stockRoom":"Stock Room 2"}`, string(body))
}

func TestPrices_MarshalAsNumbersWithoutGlobalSwitch(t *testing.T) {
	assert.False(t, decimal.MarshalJSONWithoutQuotes)

	item, err := json.Marshal(InventoryItem{ID: "a1", Revision: "r1", Name: "Bolt", Stock: 2, Price: decimal.RequireFromString("0.25"), StockRoom: StockRoom1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"a1","_rev":"r1","name":"Bolt","stock":2,"price":0.25,"stockRoom":"Stock Room 1"}`, string(item))

	summary, err := json.Marshal(InventorySummary{
		Rooms:      []StockRoomSummary{{StockRoom: StockRoom1, Items: 1, Units: 2, Value: decimal.RequireFromString("0.50")}},
		TotalItems: 1,
		TotalUnits: 2,
		TotalValue: decimal.RequireFromString("0.50"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(summary), `"value":0.5`)
	assert.Contains(t, string(summary), `"totalValue":0.5`)

	// A bare decimal outside these types keeps the library's quoted form.
	plain, err := json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(plain))
}
