package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var formSlots = map[string]bool{
	"order":           true,
	"bill":            true,
	"supply_contract": true,
	"contract":        true,
	"other":           true,
}

func (s *Server) formLocked(w http.ResponseWriter, r *http.Request) (*Form, formKey, bool) {
	slot := chi.URLParam(r, "slot")
	if !formSlots[slot] {
		writeError(w, http.StatusBadRequest, "bad_slot", "Неизвестный тип документа.")
		return nil, formKey{}, false
	}
	rec, ok := s.dealLocked(w, r)
	if !ok {
		return nil, formKey{}, false
	}

	key := formKey{dealID: rec.deal.ID, slot: slot}
	form, ok := s.forms[key]
	if !ok {
		form = &Form{}
		s.forms[key] = form
	}
	return form, key, true
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, _, ok := s.formLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) saveForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Некорректное тело запроса.")
		return
	}
	if req.Payload == nil {
		writeError(w, http.StatusBadRequest, "payload_required", "Не заполнены поля документа.")
		return
	}

	s.mu.Lock()
	form, key, ok := s.formLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}

	if req.ExpectedUpdatedAt != nil && (form.UpdatedAt == nil || !form.UpdatedAt.Equal(*req.ExpectedUpdatedAt)) {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "form_changed", "Документ изменён контрагентом.")
		return
	}

	company := s.currentCompany(r)
	now := s.now()
	form.Payload = req.Payload
	form.UpdatedByCompanyID = &company
	form.UpdatedAt = &now
	out := *form
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: "document_updated", DealID: key.dealID})
	writeJSON(w, http.StatusOK, out)
}
