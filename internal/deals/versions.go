package deals

import (
	"context"
	"dealdesk/internal/amount"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/models"
	"fmt"
)

// CreateNewVersion proposes new terms for the deal. The backend allows one
// pending proposal per deal and answers dealapi.ErrConflict otherwise.
func (s *Store) CreateNewVersion(ctx context.Context, id int64, proposal models.VersionProposal) (models.DealVersion, error) {
	version, err := s.client.CreateVersion(ctx, id, proposal)
	if err != nil {
		s.dealEntry(id).WithError(err).Warn("Не удалось предложить версию сделки.")
		return models.DealVersion{}, fmt.Errorf("Не удалось предложить версию сделки %d: %w", id, err)
	}
	s.dealEntry(id).WithField("version", version.Number).Info("Предложена новая версия сделки.")
	return version, nil
}

// DeleteLastVersion withdraws the pending proposal. Only its author may.
func (s *Store) DeleteLastVersion(ctx context.Context, id int64) error {
	if err := s.client.DeleteLastVersion(ctx, id); err != nil {
		return fmt.Errorf("Не удалось отозвать версию сделки %d: %w", id, err)
	}
	s.dealEntry(id).Info("Версия сделки отозвана.")
	return nil
}

// ListVersions returns the history oldest first.
func (s *Store) ListVersions(ctx context.Context, id int64) ([]models.DealVersion, error) {
	versions, err := s.client.ListVersions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Не удалось получить версии сделки %d: %w", id, err)
	}
	return versions, nil
}

// AcceptVersion accepts the pending proposal and then takes the accepted
// terms from the backend into the local deal.
func (s *Store) AcceptVersion(ctx context.Context, id int64, number int) error {
	if err := s.client.AcceptVersion(ctx, id, number); err != nil {
		return fmt.Errorf("Не удалось принять версию %d сделки %d: %w", number, id, err)
	}

	head, err := s.client.GetDeal(dealapi.Fresh(ctx), id, nil)
	if err != nil {
		return fmt.Errorf("Версия %d принята, но сделку %d не удалось обновить: %w", number, id, err)
	}
	amount.Reconcile(&head)

	s.mu.Lock()
	if deal, ok := s.deals[id]; ok {
		deal.Items = models.CloneItems(head.Items)
		deal.Totals = head.Totals
		deal.Comments = head.Comments
		deal.Version = head.Version
	}
	s.mu.Unlock()

	s.dealEntry(id).WithField("version", number).Info("Версия сделки принята.")
	return nil
}

// RejectVersion discards the pending proposal. The local deal is not touched.
func (s *Store) RejectVersion(ctx context.Context, id int64, number int) error {
	if err := s.client.RejectVersion(ctx, id, number); err != nil {
		return fmt.Errorf("Не удалось отклонить версию %d сделки %d: %w", number, id, err)
	}
	s.dealEntry(id).WithField("version", number).Info("Версия сделки отклонена.")
	return nil
}

// VersionItems loads the items of a historical version without changing
// the store.
func (s *Store) VersionItems(ctx context.Context, id int64, number int) ([]models.LineItem, error) {
	deal, err := s.client.GetDeal(ctx, id, &number)
	if err != nil {
		return nil, fmt.Errorf("Не удалось получить версию %d сделки %d: %w", number, id, err)
	}
	amount.Reconcile(&deal)
	return deal.Items, nil
}
