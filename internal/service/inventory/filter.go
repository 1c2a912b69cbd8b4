package inventory

import (
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// FilterItems returns, in their original order, the items whose name contains
// nameQuery (case-insensitive) and whose stock room equals stockRoomQuery.
// An empty query matches everything.
func FilterItems(items []models.InventoryItem, nameQuery, stockRoomQuery string) []models.InventoryItem {
	needle := strings.ToLower(nameQuery)

	out := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		if stockRoomQuery != "" && string(item.StockRoom) != stockRoomQuery {
			continue
		}
		out = append(out, item)
	}
	return out
}
