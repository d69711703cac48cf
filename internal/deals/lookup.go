package deals

import (
	"dealdesk/internal/models"
	"sort"
)

func (s *Store) FindByID(id int64) (models.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deal, ok := s.deals[id]
	if !ok {
		return models.Deal{}, false
	}
	return deal.Clone(), true
}

// FindByOrderNumber matches either the buyer's or the seller's number.
func (s *Store) FindByOrderNumber(number string) (models.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Deal
	for _, deal := range s.deals {
		if deal.HasOrderNumber(number) && (found == nil || deal.ID < found.ID) {
			found = deal
		}
	}
	if found == nil {
		return models.Deal{}, false
	}
	return found.Clone(), true
}

// LastGoodsDeal picks the goods deal with the highest id. Ids are assumed
// to grow with creation time.
func (s *Store) LastGoodsDeal() (models.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *models.Deal
	for _, deal := range s.deals {
		if deal.Kind != models.DealKindGoods {
			continue
		}
		if last == nil || deal.ID > last.ID {
			last = deal
		}
	}
	if last == nil {
		return models.Deal{}, false
	}
	return last.Clone(), true
}

func (s *Store) All() []models.Deal {
	s.mu.Lock()
	out := make([]models.Deal, 0, len(s.deals))
	for _, deal := range s.deals {
		out = append(out, deal.Clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
