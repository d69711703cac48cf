// Package deals keeps one company's deals in memory for a session and
// pushes edits to the deal backend. There is one Store per role.
package deals

import (
	"context"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/logger"
	"dealdesk/internal/models"
	"errors"
	"sync"
	"time"
)

var (
	ErrDealNotFound     = errors.New("Сделка не найдена.")
	ErrStatusTransition = errors.New("Завершённую сделку нельзя изменить.")
)

// API is the part of the deal backend the store talks to.
type API interface {
	ListDealIDs(ctx context.Context, role models.Role) ([]int64, error)
	GetDeal(ctx context.Context, id int64, version *int) (models.Deal, error)
	UpdateDeal(ctx context.Context, id int64, update dealapi.DealUpdate) error
	DeleteDeal(ctx context.Context, id int64) error

	CreateVersion(ctx context.Context, dealID int64, proposal models.VersionProposal) (models.DealVersion, error)
	DeleteLastVersion(ctx context.Context, dealID int64) error
	ListVersions(ctx context.Context, dealID int64) ([]models.DealVersion, error)
	AcceptVersion(ctx context.Context, dealID int64, number int) error
	RejectVersion(ctx context.Context, dealID int64, number int) error

	GenerateDocument(ctx context.Context, dealID int64, kind models.DocumentKind, date *time.Time) (models.DocumentRef, error)
	DeleteDocument(ctx context.Context, dealID int64, kind models.DocumentKind) error
}

type Store struct {
	role    models.Role
	client  API
	log     *logger.Logger
	workers int

	mu    sync.Mutex
	deals map[int64]*models.Deal
}

func New(role models.Role, client API, log *logger.Logger, workers int) *Store {
	if workers <= 0 {
		workers = 3
	}
	return &Store{
		role:    role,
		client:  client,
		log:     log,
		workers: workers,
		deals:   map[int64]*models.Deal{},
	}
}

func (s *Store) Role() models.Role {
	return s.role
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}
