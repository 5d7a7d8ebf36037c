package interaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/cxm/internal/core/events"
)

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// HandleTicketCreated logs an inbound ticket interaction on the ticket's customer.
func (h *EventHandler) HandleTicketCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TicketCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, events.EventTypeTicketCreated)
	}

	h.logger.InfoContext(ctx, "recording ticket interaction",
		"ticket_id", e.TicketID,
		"customer_id", e.CustomerID)

	return h.service.Record(ctx, &Interaction{
		CustomerID:  e.CustomerID,
		UserID:      e.CreatedBy,
		Type:        TypeTicket,
		Direction:   DirectionInbound,
		Subject:     e.Subject,
		Description: "تیکت " + e.TicketID + " با اولویت " + e.Priority + " ثبت شد",
		OccurredAt:  e.OccurredAt(),
	})
}

func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeTicketCreated, h.HandleTicketCreated)
}
