package events

import (
	"time"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEscalationCreated EventType = "escalation_created"
	EventRequestResolved   EventType = "request_resolved"
	EventKnowledgeCaptured EventType = "knowledge_captured"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EscalationCreatedPayload payload.
type EscalationCreatedPayload struct {
	CustomerID int64  `json:"customer_id"`
	Question   string `json:"question"`
}

// RequestResolvedPayload carries the pre-resolution snapshot the callback
// relays to the customer.
type RequestResolvedPayload struct {
	Customer domain.Customer `json:"customer"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
}

// KnowledgeCapturedPayload payload.
type KnowledgeCapturedPayload struct {
	EntryID  int64  `json:"entry_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
