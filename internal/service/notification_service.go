package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Mailer delivers a single notification message. Implementations are
// best-effort: a failed delivery is logged and dropped.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes notifications to the structured log instead of an SMTP
// relay. It stands in wherever no real mail transport is configured.
type LogMailer struct {
	logger *zap.Logger
	from   string
}

// NewLogMailer builds a log-backed mailer.
func NewLogMailer(logger *zap.Logger, from string) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("email notification",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// NotificationService turns domain events into outbound notifications.
// Recipients are resolved at delivery time so a changed email address is
// picked up without touching the ticket rows.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     Mailer
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	users repository.UserRepository,
	mailer Mailer,
	logger *zap.Logger,
	cfg config.NotificationConfig,
) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mailer:     mailer,
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
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", payload))
	subject := fmt.Sprintf("Ticket #%d opened: %s", event.TicketID, event.TicketTitle)
	body := fmt.Sprintf("Your ticket %q was opened with priority %s.", event.TicketTitle, payload.PriorityName)
	n.notifyUser(ctx, payload.ClientID, subject, body)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketUpdated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", payload))
	subject := fmt.Sprintf("Ticket #%d updated: %s", event.TicketID, event.TicketTitle)
	body := fmt.Sprintf("Your ticket %q is now %s with priority %s.",
		event.TicketTitle, payload.StatusName, payload.PriorityName)
	n.notifyUser(ctx, payload.ClientID, subject, body)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketAssigned", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", payload))
	subject := fmt.Sprintf("Ticket #%d assigned to you: %s", event.TicketID, event.TicketTitle)
	body := fmt.Sprintf("You have been assigned ticket %q.", event.TicketTitle)
	n.notifyUser(ctx, payload.AgentID, subject, body)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("CommentAdded", zap.Int64("ticket_id", event.TicketID))
	subject := fmt.Sprintf("New reply on ticket #%d: %s", event.TicketID, event.TicketTitle)
	body := fmt.Sprintf("A new reply was posted on ticket %q:\n\n%s", event.TicketTitle, payload.Content)
	n.notifyUser(ctx, payload.ClientID, subject, body)
	return nil
}

func (n *NotificationService) notifyUser(ctx context.Context, userID int64, subject, body string) {
	if n.mailer == nil {
		return
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if err := n.mailer.Send(ctx, user.Email, subject, body); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("to", user.Email), zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
