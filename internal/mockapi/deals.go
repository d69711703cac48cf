package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
)

func (s *Server) listDeals(match func(Deal, int64) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company := s.currentCompany(r)

		s.mu.Lock()
		out := make([]map[string]any, 0)
		for _, rec := range s.deals {
			if match(rec.deal, company) {
				out = append(out, map[string]any{"id": rec.deal.ID, "status": rec.deal.Status})
			}
		}
		s.mu.Unlock()

		sort.Slice(out, func(i, j int) bool {
			return out[i]["id"].(int64) < out[j]["id"].(int64)
		})
		writeJSON(w, http.StatusOK, out)
	}
}

// dealLocked resolves {dealID}; it writes the 404 itself.
func (s *Server) dealLocked(w http.ResponseWriter, r *http.Request) (*dealRecord, bool) {
	id, ok := pathInt(r, "dealID")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_id", "Некорректный идентификатор сделки.")
		return nil, false
	}
	rec, ok := s.deals[id]
	if !ok {
		writeError(w, http.StatusNotFound, "deal_not_found", "Сделка не найдена.")
		return nil, false
	}
	return rec, true
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.dealLocked(w, r)
	if !ok {
		return
	}

	out := rec.deal
	out.Items = cloneItems(rec.deal.Items)

	if raw := r.URL.Query().Get("version"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_version", "Некорректный номер версии.")
			return
		}
		v, ok := findVersion(rec.versions, n)
		if !ok {
			writeError(w, http.StatusNotFound, "version_not_found", "Версия не найдена.")
			return
		}
		out.Items = cloneItems(v.Items)
		out.Comments = v.Comments
		out.Version = v.Version
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateDeal(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Некорректное тело запроса.")
		return
	}

	s.mu.Lock()
	rec, ok := s.dealLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}

	if req.Status != nil {
		switch {
		case *req.Status != "active" && *req.Status != "completed":
			s.mu.Unlock()
			writeError(w, http.StatusUnprocessableEntity, "bad_status", "Некорректный статус сделки.")
			return
		case rec.deal.Status == "completed" && *req.Status != "completed":
			s.mu.Unlock()
			writeError(w, http.StatusUnprocessableEntity, "status_transition", "Завершённую сделку нельзя вернуть в работу.")
			return
		}
	}
	if req.Items != nil {
		for _, it := range *req.Items {
			if it.ProductName == "" || it.Quantity.IsNegative() || it.Price.IsNegative() {
				s.mu.Unlock()
				writeError(w, http.StatusUnprocessableEntity, "bad_item", "Некорректная позиция сделки.")
				return
			}
		}
		rec.deal.Items = cloneItems(*req.Items)
	}
	if req.Comments != nil {
		rec.deal.Comments = *req.Comments
	}
	if req.Status != nil {
		rec.deal.Status = *req.Status
	}
	if req.ContractNumber != nil {
		rec.deal.ContractNumber = *req.ContractNumber
	}
	if req.BillNumber != nil {
		rec.deal.BillNumber = *req.BillNumber
	}
	if req.SupplyContractsNumber != nil {
		rec.deal.SupplyContractsNumber = *req.SupplyContractsNumber
	}
	out := rec.deal
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: "deal_updated", DealID: out.ID})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteDeal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, ok := s.dealLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.deals, rec.deal.ID)
	for key := range s.forms {
		if key.dealID == rec.deal.ID {
			delete(s.forms, key)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
