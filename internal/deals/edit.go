package deals

import (
	"context"
	"dealdesk/internal/amount"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/models"
	"fmt"
)

// EditParty merges patch into the seller or buyer. Unknown deals are ignored.
func (s *Store) EditParty(id int64, role models.PartyRole, patch models.PartyPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[id]
	if !ok {
		return
	}
	if party := deal.Party(role); party != nil {
		party.Apply(patch)
	}
}

// EditLineItems replaces the items and reconciles the totals.
func (s *Store) EditLineItems(id int64, items []models.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[id]
	if !ok {
		return
	}
	deal.Items = models.CloneItems(items)
	amount.Reconcile(deal)
}

func (s *Store) SetComments(id int64, comments string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deal, ok := s.deals[id]; ok {
		deal.Comments = comments
	}
}

// Remove deletes the deal locally, then on the backend. When the backend
// refuses, the local entry is put back and the error returned.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	deal, ok := s.deals[id]
	if ok {
		delete(s.deals, id)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := s.client.DeleteDeal(ctx, id); err != nil {
		if dealapi.IsNotFound(err) {
			s.dealEntry(id).Warn("Сделка уже удалена на сервере.")
			return nil
		}
		s.mu.Lock()
		if _, exists := s.deals[id]; !exists {
			s.deals[id] = deal
		}
		s.mu.Unlock()
		s.dealEntry(id).WithError(err).Warn("Не удалось удалить сделку, локальная копия восстановлена.")
		return fmt.Errorf("Не удалось удалить сделку %d: %w", id, err)
	}

	s.dealEntry(id).Info("Сделка удалена.")
	return nil
}

// FullUpdate is the editor's save: it applies totals, party edits, items
// and comments locally in that order, then sends one update request.
func (s *Store) FullUpdate(ctx context.Context, id int64, seller, buyer models.PartyPatch, items []models.LineItem, comments *string) error {
	s.mu.Lock()
	deal, ok := s.deals[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w (id=%d)", ErrDealNotFound, id)
	}
	if deal.Status == models.DealStatusCompleted {
		s.mu.Unlock()
		return fmt.Errorf("%w (id=%d)", ErrStatusTransition, id)
	}

	next := models.Deal{Items: models.CloneItems(items)}
	amount.Reconcile(&next)

	deal.Seller.Apply(seller)
	deal.Buyer.Apply(buyer)
	deal.Items = next.Items
	deal.Totals = next.Totals
	if comments != nil {
		deal.Comments = *comments
	}

	update := dealapi.DealUpdate{
		Items:     models.CloneItems(deal.Items),
		SendItems: true,
		Comments:  comments,
	}
	s.mu.Unlock()

	if err := s.client.UpdateDeal(ctx, id, update); err != nil {
		s.dealEntry(id).WithError(err).Warn("Не удалось сохранить сделку.")
		return fmt.Errorf("Не удалось сохранить сделку %d: %w", id, err)
	}

	s.dealEntry(id).WithField("items", len(update.Items)).Info("Сделка сохранена.")
	return nil
}

// Complete closes the deal. There is no way back to active.
func (s *Store) Complete(ctx context.Context, id int64) error {
	s.mu.Lock()
	deal, ok := s.deals[id]
	var status models.DealStatus
	if ok {
		status = deal.Status
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w (id=%d)", ErrDealNotFound, id)
	}
	if status == models.DealStatusCompleted {
		return nil
	}

	completed := models.DealStatusCompleted
	if err := s.client.UpdateDeal(ctx, id, dealapi.DealUpdate{Status: &completed}); err != nil {
		return fmt.Errorf("Не удалось завершить сделку %d: %w", id, err)
	}

	s.mu.Lock()
	if deal, ok := s.deals[id]; ok {
		deal.Status = models.DealStatusCompleted
	}
	s.mu.Unlock()

	s.dealEntry(id).Info("Сделка завершена.")
	return nil
}
