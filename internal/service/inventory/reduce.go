package inventory

import (
	"context"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

// ReduceStock validates rawQuantity and revision, then asks the server to
// decrement itemID. The server rejects stale revisions; nothing is retried.
// Success reloads the list and clears the item's pending draft. Failure keeps it.
func (s *Store) ReduceStock(ctx context.Context, itemID, revision, rawQuantity string) error {
	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		s.logger.Debug("rejected reduction quantity", zap.String("item_id", itemID), zap.String("raw", rawQuantity), zap.Error(err))
		return &ValidationError{Message: msgInvalidQuantity, Err: ErrInvalidQuantity}
	}
	if revision == "" {
		s.logger.Warn("reduction without revision", zap.String("item_id", itemID))
		return &ValidationError{Message: msgMissingRevision, Err: ErrMissingRevision}
	}

	release, err := s.acquire(actionReducePfx + itemID)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.client.ReduceStock(ctx, itemID, quantity, revision); err != nil {
		s.logger.Error("failed to reduce stock",
			zap.String("item_id", itemID),
			zap.String("revision", revision),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return operationError(err, msgReduceFailed)
	}

	s.logger.Info("stock reduced", zap.String("item_id", itemID), zap.Int("quantity", quantity))

	_ = s.reload(ctx)

	s.mu.Lock()
	delete(s.reductions, itemID)
	s.mu.Unlock()
	return nil
}

// SubmitReduction reduces itemID by its pending draft using the last-known revision.
func (s *Store) SubmitReduction(ctx context.Context, itemID string) error {
	item, ok := s.Item(itemID)
	if !ok {
		return &ValidationError{Message: msgUnknownItem, Err: ErrUnknownItem}
	}
	return s.ReduceStock(ctx, itemID, item.Revision, s.ReductionDraft(itemID))
}

// SetReductionDraft records the quantity typed for itemID.
func (s *Store) SetReductionDraft(itemID, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw == "" {
		delete(s.reductions, itemID)
		return
	}
	s.reductions[itemID] = raw
}

// ReductionDraft returns the pending quantity for itemID, "" when none.
func (s *Store) ReductionDraft(itemID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reductions[itemID]
}

// ReductionDrafts returns a copy of all pending reduction drafts.
func (s *Store) ReductionDrafts() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.reductions))
	for id, raw := range s.reductions {
		out[id] = raw
	}
	return out
}

func parseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if err := validation.Validate(quantity, validation.Required, validation.Min(1)); err != nil {
		return 0, err
	}
	return quantity, nil
}
