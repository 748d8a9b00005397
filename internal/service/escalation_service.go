package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/events"
	"github.com/spec-kit/escalation-service/internal/repository"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// EscalationService coordinates the help request lifecycle: customer intake,
// escalation, and supervisor answers with knowledge capture.
type EscalationService struct {
	customers  repository.CustomerRepository
	requests   repository.HelpRequestRepository
	knowledge  repository.KnowledgeBaseRepository
	dispatcher events.Dispatcher
}

// EscalationDependencies bundles repositories for the escalation service.
type EscalationDependencies struct {
	CustomerRepo  repository.CustomerRepository
	RequestRepo   repository.HelpRequestRepository
	KnowledgeRepo repository.KnowledgeBaseRepository
	Dispatcher    events.Dispatcher
}

// HelpRequestCreateInput describes an escalation payload from the agent.
type HelpRequestCreateInput struct {
	CustomerID int64
	Question   string
	Status     domain.RequestStatus
	Answer     *string
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		customers:  deps.CustomerRepo,
		requests:   deps.RequestRepo,
		knowledge:  deps.KnowledgeRepo,
		dispatcher: deps.Dispatcher,
	}
}

// FindOrCreateCustomer looks a customer up by phone, creating the row on
// first contact. The phone is the dedup key; an existing row is returned
// unchanged even when the submitted name differs. The bool reports whether a
// new row was created.
func (s *EscalationService) FindOrCreateCustomer(ctx context.Context, name, phone string) (*domain.Customer, bool, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, false, apperrors.NewValidationError("name and phone required", nil)
	}

	existing, err := s.customers.GetByPhone(ctx, phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	customer := &domain.Customer{Name: name, Phone: phone}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, false, err
	}
	return customer, true, nil
}

// GetCustomerByPhone fetches a customer by phone number.
func (s *EscalationService) GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.NewValidationError("phone required", nil)
	}
	customer, err := s.customers.GetByPhone(ctx, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("customer", map[string]any{"phone": phone})
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateHelpRequest records an escalated question. Status defaults to
// pending; the customer must already exist.
func (s *EscalationService) CreateHelpRequest(ctx context.Context, input HelpRequestCreateInput) (*domain.HelpRequest, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, apperrors.NewValidationError("question required", nil)
	}
	status := input.Status
	if status == "" {
		status = domain.RequestStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewValidationError("customer does not exist", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, err
	}

	request := &domain.HelpRequest{
		CustomerID: input.CustomerID,
		Question:   question,
		Status:     status,
		Answer:     input.Answer,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventEscalationCreated,
		RequestID: request.ID,
		Payload: events.EscalationCreatedPayload{
			CustomerID: request.CustomerID,
			Question:   request.Question,
		},
	})
	return request, nil
}

// ListHelpRequests returns all requests joined with their customers, newest
// first.
func (s *EscalationService) ListHelpRequests(ctx context.Context) ([]domain.HelpRequestWithCustomer, error) {
	requests, err := s.requests.ListWithCustomer(ctx)
	if errors.Is(err, repository.ErrDanglingCustomer) {
		return nil, apperrors.NewIntegrityFault("help request references missing customer", err)
	}
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// GetHelpRequest returns a single request joined with its customer.
func (s *EscalationService) GetHelpRequest(ctx context.Context, id int64) (*domain.HelpRequestWithCustomer, error) {
	request, err := s.requests.GetWithCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("help request", map[string]any{"id": id})
	}
	if errors.Is(err, repository.ErrDanglingCustomer) {
		return nil, apperrors.NewIntegrityFault("help request references missing customer", err)
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

// SubmitAnswer resolves a pending request with the supervisor's answer.
// Sequence, each step durable before the next: claim the request
// (pending -> processing, conditional so two supervisors cannot both win),
// snapshot the request with its customer for the callback, persist the
// answer with status resolved, then capture the Q&A into the knowledge base.
func (s *EscalationService) SubmitAnswer(ctx context.Context, id int64, answerText string) (*domain.HelpRequest, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, apperrors.NewValidationError("answer required", nil)
	}

	claimed, err := s.requests.ClaimForProcessing(ctx, id, domain.RequestStatusPending, domain.RequestStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !claimed {
		if _, err := s.requests.GetByID(ctx, id); errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("help request", map[string]any{"id": id})
		} else if err != nil {
			return nil, err
		}
		return nil, apperrors.NewConflict("help request is not pending", map[string]any{"id": id})
	}

	snapshot, err := s.requests.GetWithCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("help request", map[string]any{"id": id})
	}
	if errors.Is(err, repository.ErrDanglingCustomer) {
		return nil, apperrors.NewIntegrityFault("help request references missing customer", err)
	}
	if err != nil {
		return nil, err
	}

	resolved, err := s.requests.Resolve(ctx, id, answerText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("help request", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}

	entry := &domain.KnowledgeBaseEntry{
		Question: snapshot.Question,
		Answer:   answerText,
		Category: categoryPtr(domain.CategorySupervisorTaught),
	}
	if err := s.knowledge.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestResolved,
		RequestID: resolved.ID,
		Payload: events.RequestResolvedPayload{
			Customer: snapshot.Customer,
			Question: snapshot.Question,
			Answer:   answerText,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventKnowledgeCaptured,
		RequestID: resolved.ID,
		Payload: events.KnowledgeCapturedPayload{
			EntryID:  entry.ID,
			Question: entry.Question,
			Answer:   entry.Answer,
		},
	})
	return resolved, nil
}

func (s *EscalationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func categoryPtr(category string) *string {
	return &category
}
