package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/repository"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// searchResultLimit caps knowledge search results.
const searchResultLimit = 5

// KnowledgeService serves the learned Q&A pairs.
type KnowledgeService struct {
	knowledge repository.KnowledgeBaseRepository
}

// NewKnowledgeService constructs the service.
func NewKnowledgeService(knowledgeRepo repository.KnowledgeBaseRepository) *KnowledgeService {
	return &KnowledgeService{knowledge: knowledgeRepo}
}

// ListEntries returns all knowledge entries, newest-learned first.
func (s *KnowledgeService) ListEntries(ctx context.Context) ([]domain.KnowledgeBaseEntry, error) {
	return s.knowledge.List(ctx)
}

// Search performs a case-insensitive substring match against question and
// answer text, ranked by usage count then recency.
func (s *KnowledgeService) Search(ctx context.Context, query string) ([]domain.KnowledgeBaseEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query parameter 'q' is required", nil)
	}
	return s.knowledge.Search(ctx, query, searchResultLimit)
}

// RecordUsage increments the reuse counter for an entry. The caller is the
// external automated-matching component; this service only keeps the count.
func (s *KnowledgeService) RecordUsage(ctx context.Context, id int64) (*domain.KnowledgeBaseEntry, error) {
	entry, err := s.knowledge.IncrementUsage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("knowledge entry", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
