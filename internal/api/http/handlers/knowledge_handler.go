package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/service"
)

// KnowledgeHandler serves the knowledge base endpoints.
type KnowledgeHandler struct {
	service *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: knowledgeService}
}

// List GET /api/knowledge.
func (h *KnowledgeHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.ListEntries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(knowledgeEntryResponses(entries))
}

// Search GET /api/knowledge/search?q=.
func (h *KnowledgeHandler) Search(c *fiber.Ctx) error {
	entries, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(knowledgeEntryResponses(entries))
}

// RecordUsage POST /api/knowledge/:id/usage. Called by the external automated
// matcher when it reuses an entry's answer.
func (h *KnowledgeHandler) RecordUsage(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	entry, err := h.service.RecordUsage(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(knowledgeEntryResponse(entry))
}

func knowledgeEntryResponses(entries []domain.KnowledgeBaseEntry) []dto.KnowledgeEntryResponse {
	items := make([]dto.KnowledgeEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, knowledgeEntryResponse(&entries[i]))
	}
	return items
}

func knowledgeEntryResponse(entry *domain.KnowledgeBaseEntry) dto.KnowledgeEntryResponse {
	return dto.KnowledgeEntryResponse{
		ID:         entry.ID,
		Question:   entry.Question,
		Answer:     entry.Answer,
		Category:   entry.Category,
		LearnedAt:  entry.LearnedAt,
		UsageCount: entry.UsageCount,
	}
}
