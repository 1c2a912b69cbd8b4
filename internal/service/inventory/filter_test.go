package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

func names(items []models.InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestFilterItems(t *testing.T) {
	items := []models.InventoryItem{
		{ID: "1", Name: "Bolt", StockRoom: models.StockRoom1},
		{ID: "2", Name: "Bracket", StockRoom: models.StockRoom2},
		{ID: "3", Name: "Anchor BOLT", StockRoom: models.StockRoom2},
		{ID: "4", Name: "Washer", StockRoom: models.StockRoom1},
	}

	tests := []struct {
		name      string
		nameQuery string
		room      string
		expected  []string
	}{
		{"no filters keeps order", "", "", []string{"Bolt", "Bracket", "Anchor BOLT", "Washer"}},
		{"name is case-insensitive substring", "bo", "", []string{"Bolt", "Anchor BOLT"}},
		{"upper-case query", "WASH", "", []string{"Washer"}},
		{"stock room exact", "", "Stock Room 2", []string{"Bracket", "Anchor BOLT"}},
		{"stock room is case-sensitive", "", "stock room 2", []string{}},
		{"both predicates", "bolt", "Stock Room 1", []string{"Bolt"}},
		{"no match", "nut", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(FilterItems(items, tt.nameQuery, tt.room)))
		})
	}
}

func TestFilterItems_BoltScenario(t *testing.T) {
	items := []models.InventoryItem{
		{Name: "Bolt", StockRoom: models.StockRoom1},
		{Name: "Bracket", StockRoom: models.StockRoom2},
	}

	assert.Equal(t, []string{"Bolt"}, names(FilterItems(items, "bo", "")))
}

func TestFilterItems_DoesNotMutateInput(t *testing.T) {
	items := []models.InventoryItem{{Name: "Bolt"}, {Name: "Nut"}}

	_ = FilterItems(items, "nut", "")
	again := FilterItems(items, "nut", "")

	assert.Equal(t, []string{"Bolt", "Nut"}, names(items))
	assert.Equal(t, []string{"Nut"}, names(again))
}

func TestFilterItems_Empty(t *testing.T) {
	assert.Empty(t, FilterItems(nil, "bo", ""))
}
