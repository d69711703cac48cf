// Package mockapi is an in-memory deal backend. It backs the package tests
// and the `dealdesk mock` command.
package mockapi

import (
	"dealdesk/internal/logger"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Options struct {
	BasePath  string
	CompanyID int64
	Now       func() time.Time
	Log       *logger.Logger
}

type dealRecord struct {
	deal     Deal
	versions []Version
}

type formKey struct {
	dealID int64
	slot   string
}

type Server struct {
	mu        sync.Mutex
	basePath  string
	companyID int64
	now       func() time.Time
	log       *logger.Logger

	deals    map[int64]*dealRecord
	forms    map[formKey]*Form
	products map[int64]Product
	failures map[string]int
	nextID   int64
	docSeq   int

	hub *hub
}

func New(opts Options) *Server {
	if opts.BasePath == "" {
		opts.BasePath = "/api/v1"
	}
	if opts.CompanyID <= 0 {
		opts.CompanyID = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &Server{
		basePath:  "/" + strings.Trim(opts.BasePath, "/"),
		companyID: opts.CompanyID,
		now:       opts.Now,
		log:       opts.Log,
		deals:     map[int64]*dealRecord{},
		forms:     map[formKey]*Form{},
		products:  map[int64]Product{},
		failures:  map[string]int{},
		nextID:    1,
		hub:       newHub(opts.Log),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.injectFailures)

	r.Route(s.basePath, func(r chi.Router) {
		r.Get("/deals/purchases", s.listDeals(func(d Deal, company int64) bool { return d.BuyerCompany.ID == company }))
		r.Get("/deals/sales", s.listDeals(func(d Deal, company int64) bool { return d.SellerCompany.ID == company }))

		r.Route("/deals/{dealID}", func(r chi.Router) {
			r.Get("/", s.getDeal)
			r.Put("/", s.updateDeal)
			r.Delete("/", s.deleteDeal)

			r.Get("/versions", s.listVersions)
			r.Post("/versions", s.createVersion)
			r.Delete("/versions/last", s.deleteLastVersion)
			r.Post("/versions/{version}/accept", s.decideVersion("accepted"))
			r.Post("/versions/{version}/reject", s.decideVersion("rejected"))

			r.Post("/documents/{kind}", s.generateDocument)
			r.Delete("/documents/{kind}", s.deleteDocument)

			r.Get("/forms/{slot}", s.getForm)
			r.Put("/forms/{slot}", s.saveForm)
		})

		r.Post("/cart/checkout", s.checkout)
	})

	r.Get("/ws/events", s.hub.serve)

	return r
}

// FailNext makes the next n requests matching "METHOD /path" (path without
// the base prefix) answer with 500.
func (s *Server) FailNext(method, path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = n
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, s.basePath)
		s.mu.Lock()
		n := s.failures[key]
		if n > 0 {
			s.failures[key] = n - 1
		}
		s.mu.Unlock()

		if n > 0 {
			writeError(w, http.StatusInternalServerError, "injected", "Внутренняя ошибка сервера.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithComponent("mockapi").WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": r.Header.Get("X-Request-ID"),
			"elapsed":    time.Since(started).String(),
		}).Debug("mock request")
	})
}

func (s *Server) currentCompany(r *http.Request) int64 {
	if raw := r.Header.Get("X-Company-ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id
		}
	}
	return s.companyID
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, map[string]string{"error": msg, "code": errCode})
}

func pathInt(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}
