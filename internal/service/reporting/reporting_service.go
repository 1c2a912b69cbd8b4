package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	repo "github.com/mamadbah2/stockdesk/internal/repository/sheets"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrExportDisabled is returned when no spreadsheet is configured.
var ErrExportDisabled = errors.New("inventory export is not configured")

var exportHeader = []interface{}{"ID", "Name", "Stock", "Price", "Stock Room", "Exported At"}

// Service summarizes inventory snapshots and exports them to a spreadsheet.
type Service struct {
	repo       repo.Repository
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. A nil repository disables exports.
func NewService(repository repo.Repository, sheetRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, sheetRange: sheetRange, logger: logger, now: time.Now}
}

// ExportEnabled reports whether ExportSnapshot can write anywhere.
func (s *Service) ExportEnabled() bool {
	return s.repo != nil
}

// Summarize breaks the snapshot down by stock room. The four known rooms are
// always present; rooms the server returns outside that set follow them in
// name order.
func (s *Service) Summarize(items []models.InventoryItem) models.InventorySummary {
	byRoom := make(map[models.StockRoom]*models.StockRoomSummary)
	rooms := make([]models.StockRoom, 0, len(models.AllStockRooms()))
	for _, room := range models.AllStockRooms() {
		byRoom[room] = &models.StockRoomSummary{StockRoom: room, Value: decimal.Zero}
		rooms = append(rooms, room)
	}

	var extra []models.StockRoom
	summary := models.InventorySummary{TotalValue: decimal.Zero, GeneratedAt: s.now().UTC()}

	for _, item := range items {
		entry, ok := byRoom[item.StockRoom]
		if !ok {
			entry = &models.StockRoomSummary{StockRoom: item.StockRoom, Value: decimal.Zero}
			byRoom[item.StockRoom] = entry
			extra = append(extra, item.StockRoom)
		}

		value := item.Price.Mul(decimal.NewFromInt(int64(item.Stock)))
		entry.Items++
		entry.Units += item.Stock
		entry.Value = entry.Value.Add(value)

		summary.TotalItems++
		summary.TotalUnits += item.Stock
		summary.TotalValue = summary.TotalValue.Add(value)
	}

	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	rooms = append(rooms, extra...)

	summary.Rooms = make([]models.StockRoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary.Rooms = append(summary.Rooms, *byRoom[room])
	}
	return summary
}

// ExportSnapshot overwrites the configured range with a header row and one row
// per item. It returns the number of item rows written.
func (s *Service) ExportSnapshot(ctx context.Context, items []models.InventoryItem) (int, error) {
	if s.repo == nil {
		return 0, ErrExportDisabled
	}

	stamp := s.now().UTC().Format(timestampLayout)
	rows := make([][]interface{}, 0, len(items)+1)
	rows = append(rows, exportHeader)
	for _, item := range items {
		rows = append(rows, []interface{}{
			item.ID,
			item.Name,
			item.Stock,
			item.Price.StringFixed(2),
			string(item.StockRoom),
			stamp,
		})
	}

	if err := s.repo.ReplaceRange(ctx, s.sheetRange, rows); err != nil {
		return 0, fmt.Errorf("export inventory snapshot: %w", err)
	}

	s.logger.Info("inventory snapshot exported", zap.Int("items", len(items)), zap.String("range", s.sheetRange))
	return len(items), nil
}
