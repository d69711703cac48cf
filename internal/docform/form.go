// Package docform binds one document slot of a deal to its remote form.
//
// Every Save replaces the whole payload. Writes are conditional on the last
// updated_at the form has seen, so a counterparty's newer write surfaces as
// dealapi.ErrConflict instead of being overwritten silently.
package docform

import (
	"context"
	"dealdesk/internal/logger"
	"dealdesk/internal/models"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type API interface {
	GetForm(ctx context.Context, dealID int64, slot models.DocumentSlot) (models.DocumentForm, error)
	SaveForm(ctx context.Context, dealID int64, slot models.DocumentSlot, payload map[string]any, expected *time.Time) (models.DocumentForm, error)
}

type Form struct {
	client   API
	log      *logger.Logger
	dealID   int64
	slot     models.DocumentSlot
	defaults map[string]any

	mu        sync.Mutex
	payload   map[string]any
	updatedBy *int64
	updatedAt *time.Time
	err       string
}

func New(client API, log *logger.Logger, dealID int64, slot models.DocumentSlot, defaults map[string]any) *Form {
	return &Form{
		client:   client,
		log:      log,
		dealID:   dealID,
		slot:     slot,
		defaults: maps.Clone(defaults),
		payload:  maps.Clone(defaults),
	}
}

// Load fetches the stored payload and lays it over the defaults; stored
// keys win. On failure the current payload is kept and Err is set.
func (f *Form) Load(ctx context.Context) error {
	form, err := f.client.GetForm(ctx, f.dealID, f.slot)
	if err != nil {
		f.fail(err, "Не удалось загрузить документ.")
		return fmt.Errorf("Не удалось загрузить документ %s сделки %d: %w", f.slot, f.dealID, err)
	}

	merged := maps.Clone(f.defaults)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, form.Payload)

	f.mu.Lock()
	f.payload = merged
	f.updatedBy = form.UpdatedByCompanyID
	f.updatedAt = form.UpdatedAt
	f.err = ""
	f.mu.Unlock()
	return nil
}

// Save replaces the stored payload, provided nobody wrote since the last
// Load or Save.
func (f *Form) Save(ctx context.Context, payload map[string]any) error {
	f.mu.Lock()
	expected := f.updatedAt
	f.mu.Unlock()
	return f.save(ctx, payload, expected)
}

// Overwrite replaces the stored payload unconditionally.
func (f *Form) Overwrite(ctx context.Context, payload map[string]any) error {
	return f.save(ctx, payload, nil)
}

func (f *Form) save(ctx context.Context, payload map[string]any, expected *time.Time) error {
	form, err := f.client.SaveForm(ctx, f.dealID, f.slot, payload, expected)
	if err != nil {
		f.fail(err, "Не удалось сохранить документ.")
		return fmt.Errorf("Не удалось сохранить документ %s сделки %d: %w", f.slot, f.dealID, err)
	}

	stored := form.Payload
	if stored == nil {
		stored = payload
	}

	f.mu.Lock()
	f.payload = maps.Clone(stored)
	f.updatedBy = form.UpdatedByCompanyID
	f.updatedAt = form.UpdatedAt
	f.err = ""
	f.mu.Unlock()

	f.logEntry().Debug("Документ сохранён.")
	return nil
}

func (f *Form) fail(err error, msg string) {
	f.mu.Lock()
	f.err = err.Error()
	f.mu.Unlock()
	f.logEntry().WithError(err).Warn(msg)
}

func (f *Form) Payload() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.payload)
}

func (f *Form) UpdatedByCompanyID() *int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedBy
}

func (f *Form) UpdatedAt() *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt
}

// Err is the message of the last failed call, or "".
func (f *Form) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// ChangedByCounterparty reports whether someone other than ownCompanyID
// wrote the form after seen. The form itself never acts on this.
func (f *Form) ChangedByCounterparty(ownCompanyID int64, seen time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updatedBy == nil || f.updatedAt == nil {
		return false
	}
	return *f.updatedBy != ownCompanyID && f.updatedAt.After(seen)
}

func (f *Form) logEntry() *logrus.Entry {
	return f.log.WithSlot(f.dealID, string(f.slot)).WithField("component", "docform")
}
