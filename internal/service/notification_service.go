package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/strauss-analytics/ticket-intake/internal/config"
	"github.com/strauss-analytics/ticket-intake/internal/events"
	"github.com/strauss-analytics/ticket-intake/internal/notifier"
)

// NotificationService turns domain events into outbound emails. Send failures
// are logged and swallowed here: by the time an event is published the store
// write has already succeeded, and notification is strictly best-effort.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     notifier.Notifier
	logger     *zap.Logger
	cfg        config.EmailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender notifier.Notifier, logger *zap.Logger, cfg config.EmailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for ticket_created", zap.String("event_id", event.ID))
		return nil
	}
	ticket := payload.Ticket

	admin := adminNewTicketEmail(ticket, n.cfg.HTMLBodies)
	n.send(ctx, notifier.Message{
		To:      n.cfg.AdminEmail,
		ReplyTo: ticket.RequesterEmail,
		Subject: admin.subject,
		Text:    admin.text,
		HTML:    admin.html,
	}, "admin notification", ticket.TicketID)

	confirmation := requesterConfirmationEmail(ticket, n.cfg.TeamName, n.cfg.HTMLBodies)
	n.send(ctx, notifier.Message{
		To:      ticket.RequesterEmail,
		Subject: confirmation.subject,
		Text:    confirmation.text,
		HTML:    confirmation.html,
	}, "requester confirmation", ticket.TicketID)

	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for ticket_status_changed", zap.String("event_id", event.ID))
		return nil
	}
	ticket := payload.Ticket

	update := statusUpdateEmail(ticket, payload.Patch, n.cfg.TeamName, n.cfg.HTMLBodies)
	n.send(ctx, notifier.Message{
		To:      ticket.RequesterEmail,
		ReplyTo: n.cfg.AdminEmail,
		Subject: update.subject,
		Text:    update.text,
		HTML:    update.html,
	}, "status update", ticket.TicketID)

	if n.cfg.NotifyAdminOnUpdate {
		n.send(ctx, notifier.Message{
			To:      n.cfg.AdminEmail,
			Subject: update.subject,
			Text:    update.text,
			HTML:    update.html,
		}, "admin status update copy", ticket.TicketID)
	}

	return nil
}

func (n *NotificationService) send(ctx context.Context, msg notifier.Message, kind, ticketID string) {
	if msg.To == "" {
		n.logger.Warn("skipping notification without recipient",
			zap.String("kind", kind),
			zap.String("ticket_id", ticketID))
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("notification send failed",
			zap.String("kind", kind),
			zap.String("ticket_id", ticketID),
			zap.String("to", msg.To),
			zap.Error(err))
		return
	}
	n.logger.Info("notification sent",
		zap.String("kind", kind),
		zap.String("ticket_id", ticketID),
		zap.String("to", msg.To))
}
