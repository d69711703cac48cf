package deals

import (
	"context"
	"testing"

	"dealdesk/internal/dealapi"
	"dealdesk/internal/notify"
)

func TestHandleEventsRefreshesKnownDeals(t *testing.T) {
	srv, client := newBackend(t)
	srv.AddDeal(purchase("Цемент", 1, 1))
	store := loaded(t, client)

	comments := "изменено контрагентом"
	if err := client.UpdateDeal(context.Background(), 1, dealapi.DealUpdate{Comments: &comments}); err != nil {
		t.Fatalf("UpdateDeal: %v", err)
	}
	srv.AddDeal(purchase("Песок", 1, 1))

	events := make(chan notify.Event, 3)
	events <- notify.Event{Type: notify.EventDealUpdated, DealID: 1}
	events <- notify.Event{Type: notify.EventDealUpdated, DealID: 2}
	events <- notify.Event{Type: notify.EventVersionProposed, DealID: 1}
	close(events)

	store.HandleEvents(context.Background(), events)

	deal, _ := store.FindByID(1)
	if deal.Comments != comments {
		t.Fatalf("comments = %q", deal.Comments)
	}
	if _, ok := store.FindByID(2); ok {
		t.Fatal("unknown deal must not be pulled in by an update event")
	}
}

func TestHandleEventsReloadsOnReconnect(t *testing.T) {
	srv, client := newBackend(t)
	srv.AddDeal(purchase("Цемент", 1, 1))
	store := loaded(t, client)
	srv.AddDeal(purchase("Песок", 1, 1))

	events := make(chan notify.Event, 1)
	events <- notify.Event{Type: notify.EventReconnect}
	close(events)

	store.HandleEvents(context.Background(), events)

	if store.Len() != 2 {
		t.Fatalf("len = %d, want 2", store.Len())
	}
}
