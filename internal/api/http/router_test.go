package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	httptransport "github.com/spec-kit/escalation-service/internal/api/http"
	"github.com/spec-kit/escalation-service/internal/api/http/handlers"
	"github.com/spec-kit/escalation-service/internal/config"
	"github.com/spec-kit/escalation-service/internal/events"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/persistence"
	"github.com/spec-kit/escalation-service/internal/repository"
	"github.com/spec-kit/escalation-service/internal/service"
	"github.com/spec-kit/escalation-service/internal/worker"
)

// newTestApp wires a full application over a fresh in-memory store.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	store, err := persistence.NewSQLite(config.SQLiteConfig{Path: ":memory:"}, logger)
	require.NoError(t, err)
	store.Handle().SetMaxOpenConns(1)
	t.Cleanup(store.Close)

	require.NoError(t, persistence.RunMigrations(context.Background(), store.Handle(), logger))

	db := store.Handle()
	knowledgeRepo := repository.NewKnowledgeBaseRepository(db)
	dispatcher := events.NewInMemoryDispatcher()
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		CustomerRepo:  repository.NewCustomerRepository(db),
		RequestRepo:   repository.NewHelpRequestRepository(db),
		KnowledgeRepo: knowledgeRepo,
		Dispatcher:    dispatcher,
	})
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, config.NotificationConfig{}))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler("escalation-service", "test", store),
		Requests:  handlers.NewRequestsHandler(escalationService),
		Knowledge: handlers.NewKnowledgeHandler(service.NewKnowledgeService(knowledgeRepo)),
		Customers: handlers.NewCustomersHandler(escalationService),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*nethttp.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func createCustomer(t *testing.T, app *fiber.App, name, phone string) dto.CustomerResponse {
	t.Helper()
	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: name, Phone: phone})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %s", raw)
	return decode[dto.CustomerResponse](t, raw)
}

func TestCustomerDedupByPhone(t *testing.T) {
	app := newTestApp(t)

	first := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/customers", dto.CreateCustomerRequest{
		Name:  "Sarah Johnson",
		Phone: "+1-555-0100",
	})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	second := decode[dto.CustomerResponse](t, raw)
	assert.Equal(t, first.ID, second.ID)

	resp, _ = doJSON(t, app, nethttp.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: "", Phone: ""})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestCustomerLookupByPhone(t *testing.T) {
	app := newTestApp(t)

	created := createCustomer(t, app, "Michael Chen", "+1-555-0200")

	resp, raw := doJSON(t, app, nethttp.MethodGet, "/api/customers/phone/+1-555-0200", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	found := decode[dto.CustomerResponse](t, raw)
	assert.Equal(t, created.ID, found.ID)

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/api/customers/phone/+1-555-9999", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestEscalationLifecycle(t *testing.T) {
	app := newTestApp(t)

	customer := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
		CustomerID: customer.ID,
		Question:   "Do you offer bridal packages?",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %s", raw)
	request := decode[dto.HelpRequestResponse](t, raw)
	assert.Equal(t, "pending", request.Status)
	assert.Nil(t, request.Answer)
	assert.Nil(t, request.ResolvedAt)

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/requests", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed := decode[[]dto.HelpRequestWithCustomerResponse](t, raw)
	require.Len(t, listed, 1)
	assert.Equal(t, request.ID, listed[0].ID)
	assert.Equal(t, customer.ID, listed[0].Customer.ID)
	assert.Equal(t, "Sarah Johnson", listed[0].Customer.Name)

	resp, raw = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/api/requests/%d/answer", request.ID), dto.SubmitAnswerRequest{
		Answer: "Yes, starting at $200.",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, "body: %s", raw)
	resolved := decode[dto.HelpRequestResponse](t, raw)
	assert.Equal(t, "resolved", resolved.Status)
	require.NotNil(t, resolved.Answer)
	assert.Equal(t, "Yes, starting at $200.", *resolved.Answer)
	require.NotNil(t, resolved.ResolvedAt)
	assert.GreaterOrEqual(t, *resolved.ResolvedAt, resolved.CreatedAt)

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/knowledge", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	entries := decode[[]dto.KnowledgeEntryResponse](t, raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "Do you offer bridal packages?", entries[0].Question)
	assert.Equal(t, "Yes, starting at $200.", entries[0].Answer)
	require.NotNil(t, entries[0].Category)
	assert.Equal(t, "supervisor-taught", *entries[0].Category)

	// the request is no longer pending, so a second answer is rejected
	resp, _ = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/api/requests/%d/answer", request.ID), dto.SubmitAnswerRequest{
		Answer: "A different answer.",
	})
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
}

func TestSubmitAnswerValidation(t *testing.T) {
	app := newTestApp(t)

	customer := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")
	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
		CustomerID: customer.ID,
		Question:   "Do you offer bridal packages?",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	request := decode[dto.HelpRequestResponse](t, raw)

	resp, _ = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/api/requests/%d/answer", request.ID), dto.SubmitAnswerRequest{Answer: ""})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, nethttp.MethodPatch, "/api/requests/999/answer", dto.SubmitAnswerRequest{Answer: "hello"})
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestGetRequestErrors(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, nethttp.MethodGet, "/api/requests/999", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, raw)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "error body expected, got: %s", raw)
	assert.Equal(t, "NOT_FOUND", errObj["code"])

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/api/requests/not-a-number", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestRequestCreationValidation(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
		CustomerID: 999,
		Question:   "a question with no customer",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	customer := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")
	resp, _ = doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
		CustomerID: customer.ID,
		Question:   "",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestKnowledgeSearch(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodGet, "/api/knowledge/search", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	customer := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")
	for i := 0; i < 7; i++ {
		resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
			CustomerID: customer.ID,
			Question:   fmt.Sprintf("bridal question %d", i),
		})
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
		request := decode[dto.HelpRequestResponse](t, raw)
		resp, _ = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/api/requests/%d/answer", request.ID), dto.SubmitAnswerRequest{
			Answer: "Yes, we have bridal offers.",
		})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	}

	resp, raw := doJSON(t, app, nethttp.MethodGet, "/api/knowledge/search?q=BRIDAL", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	results := decode[[]dto.KnowledgeEntryResponse](t, raw)
	assert.Len(t, results, 5)
}

func TestRecordKnowledgeUsage(t *testing.T) {
	app := newTestApp(t)

	customer := createCustomer(t, app, "Sarah Johnson", "+1-555-0100")
	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/requests", dto.CreateHelpRequestRequest{
		CustomerID: customer.ID,
		Question:   "Do you accept walk-ins?",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	request := decode[dto.HelpRequestResponse](t, raw)
	resp, _ = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/api/requests/%d/answer", request.ID), dto.SubmitAnswerRequest{
		Answer: "Yes, based on availability.",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/knowledge", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	entries := decode[[]dto.KnowledgeEntryResponse](t, raw)
	require.Len(t, entries, 1)

	resp, raw = doJSON(t, app, nethttp.MethodPost, fmt.Sprintf("/api/knowledge/%d/usage", entries[0].ID), nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	updated := decode[dto.KnowledgeEntryResponse](t, raw)
	assert.Equal(t, int64(1), updated.UsageCount)

	resp, _ = doJSON(t, app, nethttp.MethodPost, "/api/knowledge/999/usage", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, nethttp.MethodGet, "/health/live", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, raw)
	assert.Equal(t, "alive", body["status"])

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/health/ready", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body = decode[map[string]any](t, raw)
	assert.Equal(t, "ready", body["status"])
}
