package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/service"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// CustomersHandler manages customer endpoints used by the phone agent.
type CustomersHandler struct {
	service *service.EscalationService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(escalationService *service.EscalationService) *CustomersHandler {
	return &CustomersHandler{service: escalationService}
}

// Create POST /api/customers. Phone is the dedup key: an existing customer is
// returned with 200, a new one with 201.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, created, err := h.service.FindOrCreateCustomer(c.UserContext(), req.Name, req.Phone)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(customerResponse(customer))
}

// GetByPhone GET /api/customers/phone/:phone.
func (h *CustomersHandler) GetByPhone(c *fiber.Ctx) error {
	phone := c.Params("phone")
	if decoded, err := url.PathUnescape(phone); err == nil {
		phone = decoded
	}
	customer, err := h.service.GetCustomerByPhone(c.UserContext(), phone)
	if err != nil {
		return err
	}
	return c.JSON(customerResponse(customer))
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
}
