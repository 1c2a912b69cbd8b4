package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/navigation"
)

// InventoryService is the inventory state the console renders and mutates.
type InventoryService interface {
	LoadInventory(ctx context.Context) error
	Loaded() bool
	Items() []models.InventoryItem
	View() []models.InventoryItem
	SetFilters(nameQuery, stockRoomQuery string)
	Filters() (nameQuery, stockRoomQuery string)
	Draft() models.NewItemDraft
	SetDraft(d models.NewItemDraft)
	AddItem(ctx context.Context) error
	SetReductionDraft(itemID, raw string)
	ReductionDrafts() map[string]string
	SubmitReduction(ctx context.Context, itemID string) error
}

// Reporter summarizes and exports inventory snapshots.
type Reporter interface {
	Summarize(items []models.InventoryItem) models.InventorySummary
	ExportSnapshot(ctx context.Context, items []models.InventoryItem) (int, error)
}

// Navigator records which view the operator is on.
type Navigator interface {
	Navigate(view navigation.View)
}

// InventoryHandler serves the inventory view and its actions.
type InventoryHandler struct {
	store    InventoryService
	reporter Reporter
	nav      Navigator
	logger   *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(store InventoryService, reporter Reporter, nav Navigator, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{store: store, reporter: reporter, nav: nav, logger: logger}
}

// FilterState echoes the active filters.
type FilterState struct {
	Name      string `json:"name"`
	StockRoom string `json:"stockRoom"`
}

// InventoryView is the rendered inventory page.
type InventoryView struct {
	View       navigation.View        `json:"view"`
	Items      []models.InventoryItem `json:"items"`
	Total      int                    `json:"total"`
	Filters    FilterState            `json:"filters"`
	StockRooms []models.StockRoom     `json:"stockRooms"`
	Draft      models.NewItemDraft    `json:"draft"`
	Reductions map[string]string      `json:"reductions"`
	Error      string                 `json:"error,omitempty"`
}

// reductionPayload keeps the quantity as sent. Strings are used verbatim and
// numbers keep their literal text, so parsing happens in one place.
type reductionPayload struct {
	Quantity json.RawMessage `json:"quantity"`
}

// View renders the filtered inventory. The first visit loads the list; query
// parameters present on the request replace the stored filters.
func (h *InventoryHandler) View(c *gin.Context) {
	if h.nav != nil {
		h.nav.Navigate(navigation.Inventory)
	}

	name, room := h.store.Filters()
	nameQuery, hasName := c.GetQuery("name")
	roomQuery, hasRoom := c.GetQuery("stockRoom")
	if hasName || hasRoom {
		if hasName {
			name = nameQuery
		}
		if hasRoom {
			room = roomQuery
		}
		h.store.SetFilters(name, room)
	}

	var loadErr error
	if !h.store.Loaded() {
		loadErr = h.store.LoadInventory(c.Request.Context())
	}
	if loadErr != nil && !isRenderable(loadErr) {
		respondError(c, h.logger, loadErr)
		return
	}

	view := h.render()
	if loadErr != nil {
		view.Error = userMessage(loadErr)
	}
	c.JSON(http.StatusOK, view)
}

// Refresh reloads the list from the server.
func (h *InventoryHandler) Refresh(c *gin.Context) {
	if err := h.store.LoadInventory(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.render())
}

// UpdateDraft replaces the new item draft.
func (h *InventoryHandler) UpdateDraft(c *gin.Context) {
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	h.store.SetDraft(draft)
	c.JSON(http.StatusOK, h.store.Draft())
}

// AddItem submits the draft, optionally replacing it from the request body first.
func (h *InventoryHandler) AddItem(c *gin.Context) {
	if c.Request.ContentLength != 0 {
		draft, ok := h.bindDraft(c)
		if !ok {
			return
		}
		h.store.SetDraft(draft)
	}

	if err := h.store.AddItem(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.render())
}

// UpdateReduction records the quantity typed for one item.
func (h *InventoryHandler) UpdateReduction(c *gin.Context) {
	raw, ok := h.bindQuantity(c)
	if !ok {
		return
	}
	h.store.SetReductionDraft(c.Param("id"), raw)
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "quantity": raw})
}

// Reduce submits the pending reduction for one item.
func (h *InventoryHandler) Reduce(c *gin.Context) {
	id := c.Param("id")
	if c.Request.ContentLength != 0 {
		raw, ok := h.bindQuantity(c)
		if !ok {
			return
		}
		h.store.SetReductionDraft(id, raw)
	}

	if err := h.store.SubmitReduction(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.render())
}

// Summary renders the per-room breakdown of the current snapshot.
func (h *InventoryHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporter.Summarize(h.store.Items()))
}

// Export writes the current snapshot to the configured spreadsheet.
func (h *InventoryHandler) Export(c *gin.Context) {
	n, err := h.reporter.ExportSnapshot(c.Request.Context(), h.store.Items())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": n})
}

func (h *InventoryHandler) render() InventoryView {
	name, room := h.store.Filters()
	items := h.store.View()
	return InventoryView{
		View:       navigation.Inventory,
		Items:      items,
		Total:      len(items),
		Filters:    FilterState{Name: name, StockRoom: room},
		StockRooms: models.AllStockRooms(),
		Draft:      h.store.Draft(),
		Reductions: h.store.ReductionDrafts(),
	}
}

func (h *InventoryHandler) bindDraft(c *gin.Context) (models.NewItemDraft, bool) {
	draft := h.store.Draft()
	if err := c.ShouldBindJSON(&draft); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid draft payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return models.NewItemDraft{}, false
	}
	return draft, true
}

func (h *InventoryHandler) bindQuantity(c *gin.Context) (string, bool) {
	var payload reductionPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid reduction payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return "", false
	}

	raw := bytes.TrimSpace(payload.Quantity)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return "", false
		}
		return text, true
	}
	return string(raw), true
}
