package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/service"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// RequestsHandler manages help request endpoints.
type RequestsHandler struct {
	service *service.EscalationService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(escalationService *service.EscalationService) *RequestsHandler {
	return &RequestsHandler{service: escalationService}
}

// List GET /api/requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	requests, err := h.service.ListHelpRequests(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.HelpRequestWithCustomerResponse, 0, len(requests))
	for i := range requests {
		items = append(items, helpRequestWithCustomerResponse(&requests[i]))
	}
	return c.JSON(items)
}

// Get GET /api/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	request, err := h.service.GetHelpRequest(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(helpRequestWithCustomerResponse(request))
}

// Create POST /api/requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateHelpRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.HelpRequestCreateInput{
		CustomerID: req.CustomerID,
		Question:   req.Question,
		Answer:     req.Answer,
	}
	if req.Status != nil {
		input.Status = domain.RequestStatus(*req.Status)
	}
	request, err := h.service.CreateHelpRequest(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(helpRequestResponse(request))
}

// SubmitAnswer PATCH /api/requests/:id/answer.
func (h *RequestsHandler) SubmitAnswer(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.service.SubmitAnswer(c.UserContext(), id, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(helpRequestResponse(request))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": raw})
	}
	return id, nil
}

func helpRequestResponse(request *domain.HelpRequest) dto.HelpRequestResponse {
	return dto.HelpRequestResponse{
		ID:         request.ID,
		CustomerID: request.CustomerID,
		Question:   request.Question,
		Status:     string(request.Status),
		Answer:     request.Answer,
		CreatedAt:  request.CreatedAt,
		ResolvedAt: request.ResolvedAt,
	}
}

func helpRequestWithCustomerResponse(request *domain.HelpRequestWithCustomer) dto.HelpRequestWithCustomerResponse {
	return dto.HelpRequestWithCustomerResponse{
		HelpRequestResponse: helpRequestResponse(&request.HelpRequest),
		Customer:            customerResponse(&request.Customer),
	}
}
