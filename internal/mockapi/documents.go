package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

var documentPrefixes = map[string]string{
	"bill":            "СЧ",
	"contract":        "ДГ",
	"supply_contract": "ДП",
}

func (s *Server) generateDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	prefix, ok := documentPrefixes[kind]
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_document", "Неизвестный тип документа.")
		return
	}

	var req documentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "Некорректное тело запроса.")
			return
		}
	}

	date := s.now().Truncate(24 * time.Hour)
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", "Некорректная дата документа.")
			return
		}
		date = parsed
	}

	s.mu.Lock()
	rec, ok := s.dealLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.docSeq++
	number := fmt.Sprintf("%s-%d-%d", prefix, rec.deal.ID, s.docSeq)
	switch kind {
	case "bill":
		rec.deal.BillNumber, rec.deal.BillDate = number, &date
	case "contract":
		rec.deal.ContractNumber, rec.deal.ContractDate = number, &date
	case "supply_contract":
		rec.deal.SupplyContractsNumber, rec.deal.SupplyContractsDate = number, &date
	}
	dealID := rec.deal.ID
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: "document_updated", DealID: dealID})
	writeJSON(w, http.StatusCreated, map[string]any{"number": number, "date": date})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	s.mu.Lock()
	rec, ok := s.dealLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}

	var number *string
	var date **time.Time
	switch kind {
	case "bill":
		number, date = &rec.deal.BillNumber, &rec.deal.BillDate
	case "contract":
		number, date = &rec.deal.ContractNumber, &rec.deal.ContractDate
	case "supply_contract":
		number, date = &rec.deal.SupplyContractsNumber, &rec.deal.SupplyContractsDate
	default:
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "bad_document", "Неизвестный тип документа.")
		return
	}
	if *number == "" {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document_not_found", "Документ не сформирован.")
		return
	}
	*number, *date = "", nil
	dealID := rec.deal.ID
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: "document_updated", DealID: dealID})
	w.WriteHeader(http.StatusNoContent)
}
