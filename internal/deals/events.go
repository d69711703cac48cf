package deals

import (
	"context"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/notify"
)

// HandleEvents keeps the store in step with the backend feed until ctx is
// done or the channel closes. Only deals already in the store are refreshed.
func (s *Store) HandleEvents(ctx context.Context, events <-chan notify.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				s.logEntry().Warn("Канал событий закрыт.")
				return
			}
			s.handleEvent(ctx, event)
		}
	}
}

func (s *Store) handleEvent(ctx context.Context, event notify.Event) {
	switch event.Type {
	case notify.EventReconnect:
		s.logEntry().Info("Лента событий переподключена, догружаем сделки.")
		if _, err := s.LoadAll(dealapi.Fresh(ctx)); err != nil {
			s.logEntry().WithError(err).Warn("Не удалось догрузить сделки после переподключения.")
		}
	case notify.EventDealUpdated, notify.EventVersionAccepted, notify.EventDocumentUpdated:
		if _, known := s.FindByID(event.DealID); !known {
			return
		}
		if err := s.Refresh(ctx, event.DealID); err != nil {
			s.dealEntry(event.DealID).WithError(err).Warn("Не удалось обновить сделку по событию.")
		}
	case notify.EventVersionProposed, notify.EventVersionRejected:
		s.dealEntry(event.DealID).WithField("event", event.Type).Info("Событие по версии сделки.")
	}
}
