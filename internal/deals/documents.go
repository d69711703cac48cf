package deals

import (
	"context"
	"dealdesk/internal/models"
	"fmt"
	"time"
)

// GenerateDocument issues a bill, contract or supply contract and records
// its number and date on the local deal.
func (s *Store) GenerateDocument(ctx context.Context, id int64, kind models.DocumentKind, date *time.Time) (models.DocumentRef, error) {
	ref, err := s.client.GenerateDocument(ctx, id, kind, date)
	if err != nil {
		return models.DocumentRef{}, fmt.Errorf("Не удалось сформировать документ %s сделки %d: %w", kind, id, err)
	}

	s.mu.Lock()
	if deal, ok := s.deals[id]; ok {
		setDocument(&deal.Documents, kind, &ref)
	}
	s.mu.Unlock()

	s.dealEntry(id).WithFields(map[string]interface{}{
		"document": kind,
		"number":   ref.Number,
	}).Info("Документ сформирован.")
	return ref, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64, kind models.DocumentKind) error {
	if err := s.client.DeleteDocument(ctx, id, kind); err != nil {
		return fmt.Errorf("Не удалось удалить документ %s сделки %d: %w", kind, id, err)
	}

	s.mu.Lock()
	if deal, ok := s.deals[id]; ok {
		setDocument(&deal.Documents, kind, nil)
	}
	s.mu.Unlock()
	return nil
}

func setDocument(refs *models.DocumentRefs, kind models.DocumentKind, ref *models.DocumentRef) {
	switch kind {
	case models.DocumentBill:
		refs.Bill = ref
	case models.DocumentContract:
		refs.Contract = ref
	case models.DocumentSupplyContract:
		refs.SupplyContract = ref
	}
}
