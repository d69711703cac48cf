package docform

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dealdesk/internal/dealapi"
	"dealdesk/internal/logger"
	"dealdesk/internal/mockapi"
	"dealdesk/internal/models"
)

type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newBackend(t *testing.T) (*dealapi.Client, int64) {
	t.Helper()
	clock := &tickingClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	srv := mockapi.New(mockapi.Options{CompanyID: 100, Now: clock.Now})
	id := srv.AddDeal(mockapi.Deal{
		SellerCompany: mockapi.Company{ID: 200},
		BuyerCompany:  mockapi.Company{ID: 100},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return dealapi.New(ts.URL, "/api/v1", logger.Nop()), id
}

func TestLoadFreshFormKeepsDefaults(t *testing.T) {
	client, id := newBackend(t)
	form := New(client, logger.Nop(), id, models.SlotBill, map[string]any{"currency": "RUB"})

	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := form.Payload()["currency"]; got != "RUB" {
		t.Fatalf("currency = %v", got)
	}
	if form.UpdatedByCompanyID() != nil || form.UpdatedAt() != nil {
		t.Fatalf("fresh form has metadata: by=%v at=%v", form.UpdatedByCompanyID(), form.UpdatedAt())
	}
}

func TestLoadStoredFieldsWin(t *testing.T) {
	client, id := newBackend(t)
	ctx := context.Background()

	writer := New(client, logger.Nop(), id, models.SlotContract, nil)
	if err := writer.Save(ctx, map[string]any{"city": "Казань"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reader := New(client, logger.Nop(), id, models.SlotContract, map[string]any{"city": "Москва", "term": "30 дней"})
	if err := reader.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	payload := reader.Payload()
	if payload["city"] != "Казань" || payload["term"] != "30 дней" {
		t.Fatalf("payload = %v", payload)
	}
	if by := reader.UpdatedByCompanyID(); by == nil || *by != 100 {
		t.Fatalf("updated by = %v", by)
	}
}

func TestSaveConflictKeepsLocalPayload(t *testing.T) {
	client, id := newBackend(t)
	ctx := context.Background()

	mine := New(client, logger.Nop(), id, models.SlotBill, nil)
	theirs := New(client, logger.Nop(), id, models.SlotBill, nil)
	if err := mine.Load(ctx); err != nil {
		t.Fatalf("Load mine: %v", err)
	}
	if err := mine.Save(ctx, map[string]any{"bank": "Сбербанк"}); err != nil {
		t.Fatalf("Save mine: %v", err)
	}
	if err := theirs.Load(ctx); err != nil {
		t.Fatalf("Load theirs: %v", err)
	}
	if err := theirs.Save(ctx, map[string]any{"bank": "ВТБ"}); err != nil {
		t.Fatalf("Save theirs: %v", err)
	}

	err := mine.Save(ctx, map[string]any{"bank": "Альфа"})
	if !errors.Is(err, dealapi.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if mine.Err() == "" {
		t.Fatal("Err not set after conflict")
	}
	if got := mine.Payload()["bank"]; got != "Сбербанк" {
		t.Fatalf("local payload = %v", got)
	}

	if err := mine.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if mine.Err() != "" {
		t.Fatalf("Err not cleared: %q", mine.Err())
	}
	if got := mine.Payload()["bank"]; got != "ВТБ" {
		t.Fatalf("reloaded payload = %v", got)
	}
	if err := mine.Save(ctx, map[string]any{"bank": "Альфа"}); err != nil {
		t.Fatalf("Save after reload: %v", err)
	}
}

func TestOverwriteIgnoresStamp(t *testing.T) {
	client, id := newBackend(t)
	ctx := context.Background()

	mine := New(client, logger.Nop(), id, models.SlotOrder, nil)
	theirs := New(client, logger.Nop(), id, models.SlotOrder, nil)
	if err := mine.Save(ctx, map[string]any{"note": "1"}); err != nil {
		t.Fatalf("Save mine: %v", err)
	}
	if err := theirs.Overwrite(ctx, map[string]any{"note": "2"}); err != nil {
		t.Fatalf("Overwrite theirs: %v", err)
	}
	if err := mine.Overwrite(ctx, map[string]any{"note": "3"}); err != nil {
		t.Fatalf("Overwrite mine: %v", err)
	}
	if got := mine.Payload()["note"]; got != "3" {
		t.Fatalf("note = %v", got)
	}
}

type stubAPI struct {
	form models.DocumentForm
	err  error
}

func (s *stubAPI) GetForm(context.Context, int64, models.DocumentSlot) (models.DocumentForm, error) {
	return s.form, s.err
}

func (s *stubAPI) SaveForm(_ context.Context, _ int64, _ models.DocumentSlot, payload map[string]any, _ *time.Time) (models.DocumentForm, error) {
	if s.err != nil {
		return models.DocumentForm{}, s.err
	}
	s.form.Payload = payload
	return s.form, nil
}

func TestLoadFailureKeepsPayload(t *testing.T) {
	api := &stubAPI{err: dealapi.ErrTransport}
	form := New(api, logger.Nop(), 1, models.SlotBill, map[string]any{"currency": "RUB"})

	if err := form.Load(context.Background()); !errors.Is(err, dealapi.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if form.Err() == "" || form.Payload()["currency"] != "RUB" {
		t.Fatalf("err=%q payload=%v", form.Err(), form.Payload())
	}
}

func TestChangedByCounterparty(t *testing.T) {
	seen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := seen.Add(time.Hour)
	counterparty := int64(200)

	api := &stubAPI{form: models.DocumentForm{UpdatedByCompanyID: &counterparty, UpdatedAt: &later}}
	form := New(api, logger.Nop(), 1, models.SlotBill, nil)
	if form.ChangedByCounterparty(100, seen) {
		t.Fatal("unloaded form reports a change")
	}
	if err := form.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !form.ChangedByCounterparty(100, seen) {
		t.Fatal("counterparty write not detected")
	}
	if form.ChangedByCounterparty(200, seen) {
		t.Fatal("own write reported as counterparty's")
	}
	if form.ChangedByCounterparty(100, later) {
		t.Fatal("write not after seen reported")
	}
}
