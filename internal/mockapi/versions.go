package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func findVersion(versions []Version, n int) (Version, bool) {
	for _, v := range versions {
		if v.Version == n {
			return v, true
		}
	}
	return Version{}, false
}

func pending(versions []Version) (int, bool) {
	for i, v := range versions {
		if v.Status == "proposed" {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.dealLocked(w, r)
	if !ok {
		return
	}
	out := make([]Version, len(rec.versions))
	copy(out, rec.versions)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createVersion(w http.ResponseWriter, r *http.Request) {
	var req versionRequest
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
	if _, exists := pending(rec.versions); exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "version_pending", "По сделке уже есть неподтверждённая версия.")
		return
	}
	if rec.deal.Status == "completed" {
		s.mu.Unlock()
		writeError(w, http.StatusUnprocessableEntity, "deal_completed", "Сделка завершена.")
		return
	}

	last := rec.versions[len(rec.versions)-1].Version
	v := Version{
		Version:         last + 1,
		Status:          "proposed",
		AuthorCompanyID: s.currentCompany(r),
		CreatedAt:       s.now(),
		Items:           cloneItems(req.Items),
		Comments:        req.Comments,
	}
	rec.versions = append(rec.versions, v)
	dealID := rec.deal.ID
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: "version_proposed", DealID: dealID})
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) deleteLastVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, ok := s.dealLocked(w, r)
	if !ok {
		s.mu.Unlock()
		return
	}

	last := len(rec.versions) - 1
	if rec.versions[last].Status != "proposed" {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "no_pending_version", "Нет версии для отзыва.")
		return
	}
	if rec.versions[last].AuthorCompanyID != s.currentCompany(r) {
		s.mu.Unlock()
		writeError(w, http.StatusForbidden, "not_author", "Отозвать версию может только её автор.")
		return
	}
	rec.versions = rec.versions[:last]
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decideVersion(state string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "version"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_version", "Некорректный номер версии.")
			return
		}

		s.mu.Lock()
		rec, ok := s.dealLocked(w, r)
		if !ok {
			s.mu.Unlock()
			return
		}

		idx, exists := pending(rec.versions)
		if _, found := findVersion(rec.versions, n); !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, "version_not_found", "Версия не найдена.")
			return
		}
		if !exists || rec.versions[idx].Version != n {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "version_not_pending", "Версия не ожидает решения.")
			return
		}

		rec.versions[idx].Status = state
		if state == "accepted" {
			rec.deal.Items = cloneItems(rec.versions[idx].Items)
			rec.deal.Comments = rec.versions[idx].Comments
			rec.deal.Version = n
		}
		dealID := rec.deal.ID
		s.mu.Unlock()

		event := "version_rejected"
		if state == "accepted" {
			event = "version_accepted"
		}
		s.hub.broadcast(Event{Type: event, DealID: dealID})
		w.WriteHeader(http.StatusNoContent)
	}
}
