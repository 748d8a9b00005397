package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/escalation-service/internal/config"
	"github.com/spec-kit/escalation-service/internal/events"
)

// NotificationService emits the operator-facing side effects of the
// escalation workflow: the supervisor alert on new escalations, the customer
// callback once an answer lands, and the knowledge capture record. The
// callback itself happens out-of-band in the telephony agent; here it is a
// logged side effect plus an optional webhook stub.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEscalationCreated, n.handleEscalationCreated)
	n.dispatcher.Subscribe(events.EventRequestResolved, n.handleRequestResolved)
	n.dispatcher.Subscribe(events.EventKnowledgeCaptured, n.handleKnowledgeCaptured)
}

func (n *NotificationService) handleEscalationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EscalationCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("new escalation needs supervisor attention",
		zap.Int64("request_id", event.RequestID),
		zap.Int64("customer_id", payload.CustomerID),
		zap.String("question", payload.Question))
	return nil
}

func (n *NotificationService) handleRequestResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestResolvedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("immediate callback to customer",
		zap.Int64("request_id", event.RequestID),
		zap.String("customer", payload.Customer.Name),
		zap.String("phone", payload.Customer.Phone),
		zap.String("message", fmt.Sprintf("Sorry for the delay. %s", payload.Answer)))
	n.sendAgentCallbackStub(ctx, event)
	return nil
}

func (n *NotificationService) handleKnowledgeCaptured(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.KnowledgeCapturedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("knowledge base updated",
		zap.Int64("entry_id", payload.EntryID),
		zap.String("question", payload.Question),
		zap.String("answer", payload.Answer))
	return nil
}

func (n *NotificationService) sendAgentCallbackStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.AgentCallbackURL) == "" {
		return
	}
	n.logger.Debug("sendAgentCallbackStub",
		zap.String("url", n.cfg.AgentCallbackURL),
		zap.Int64("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)))
}
