package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/shopspring/decimal"
)

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Некорректное тело запроса.")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "empty_cart", "Корзина пуста.")
		return
	}

	buyer := s.currentCompany(r)

	s.mu.Lock()
	bySeller := map[int64][]Item{}
	for _, line := range req.Items {
		p, ok := s.products[line.ProductID]
		if !ok {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, "product_not_found", "Товар не найден.")
			return
		}
		if line.Quantity <= 0 {
			s.mu.Unlock()
			writeError(w, http.StatusUnprocessableEntity, "bad_quantity", "Некорректное количество.")
			return
		}
		bySeller[p.SellerID] = append(bySeller[p.SellerID], Item{
			ProductName:       p.Name,
			Article:           p.Article,
			Quantity:          decimal.NewFromInt(int64(line.Quantity)),
			UnitOfMeasurement: p.Unit,
			Price:             p.Price,
		})
	}

	sellers := make([]int64, 0, len(bySeller))
	for seller := range bySeller {
		sellers = append(sellers, seller)
	}
	sort.Slice(sellers, func(i, j int) bool { return sellers[i] < sellers[j] })

	ids := make([]int64, 0, len(sellers))
	for _, seller := range sellers {
		ids = append(ids, s.addDealLocked(Deal{
			SellerCompany: Company{ID: seller},
			BuyerCompany:  Company{ID: buyer},
			Items:         bySeller[seller],
		}))
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.hub.broadcast(Event{Type: "deal_updated", DealID: id})
	}
	writeJSON(w, http.StatusCreated, map[string]any{"deal_ids": ids})
}
