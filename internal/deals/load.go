package deals

import (
	"context"
	"dealdesk/internal/amount"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/models"
	"fmt"
	"sync"
	"sync/atomic"
)

// LoadAll fetches every deal visible in the store's role. Details that fail
// to load are logged and skipped; existing entries are never replaced.
// It returns the number of newly inserted deals.
func (s *Store) LoadAll(ctx context.Context) (int, error) {
	ids, err := s.client.ListDealIDs(ctx, s.role)
	if err != nil {
		s.logEntry().WithError(err).Warn("Не удалось получить список сделок.")
		return 0, fmt.Errorf("Не удалось получить список сделок: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	jobs := make(chan int64, len(ids))
	var inserted, failed atomic.Int64
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for id := range jobs {
			if ctx.Err() != nil {
				return
			}
			deal, err := s.client.GetDeal(ctx, id, nil)
			if err != nil {
				failed.Add(1)
				s.dealEntry(id).WithError(err).Warn("Сделка пропущена при загрузке.")
				continue
			}
			amount.Reconcile(&deal)
			if s.Upsert(deal) {
				inserted.Add(1)
			}
		}
	}

	workers := min(s.workers, len(ids))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	s.logEntry().WithFields(map[string]interface{}{
		"listed":   len(ids),
		"inserted": inserted.Load(),
		"failed":   failed.Load(),
	}).Info("Сделки загружены.")

	if err := ctx.Err(); err != nil {
		return int(inserted.Load()), err
	}
	return int(inserted.Load()), nil
}

// Refresh replaces a deal with the backend copy. Remote state wins.
func (s *Store) Refresh(ctx context.Context, id int64) error {
	deal, err := s.client.GetDeal(dealapi.Fresh(ctx), id, nil)
	if err != nil {
		return fmt.Errorf("Не удалось обновить сделку %d: %w", id, err)
	}
	amount.Reconcile(&deal)

	s.mu.Lock()
	s.deals[id] = ptr(deal.Clone())
	s.mu.Unlock()

	s.dealEntry(id).Debug("Сделка обновлена с сервера.")
	return nil
}

// Upsert inserts deal unless its id is already present.
func (s *Store) Upsert(deal models.Deal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deals[deal.ID]; exists {
		return false
	}
	s.deals[deal.ID] = ptr(deal.Clone())
	return true
}

func ptr[T any](v T) *T {
	return &v
}
