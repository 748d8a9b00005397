package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// KnowledgeBaseRepository encapsulates learned Q&A persistence.
type KnowledgeBaseRepository interface {
	Create(ctx context.Context, entry *domain.KnowledgeBaseEntry) error
	GetByID(ctx context.Context, id int64) (*domain.KnowledgeBaseEntry, error)
	List(ctx context.Context) ([]domain.KnowledgeBaseEntry, error)
	Search(ctx context.Context, query string, limit int) ([]domain.KnowledgeBaseEntry, error)
	// IncrementUsage bumps usage_count and returns the updated entry, or
	// sql.ErrNoRows when the id is absent.
	IncrementUsage(ctx context.Context, id int64) (*domain.KnowledgeBaseEntry, error)
}

type knowledgeRepository struct {
	db *sql.DB
}

// NewKnowledgeBaseRepository instantiates repository.
func NewKnowledgeBaseRepository(db *sql.DB) KnowledgeBaseRepository {
	return &knowledgeRepository{db: db}
}

func (r *knowledgeRepository) Create(ctx context.Context, entry *domain.KnowledgeBaseEntry) error {
	const query = `
        INSERT INTO knowledge_base (question, answer, category)
        VALUES (?, ?, ?)
        RETURNING id, learned_at, usage_count`
	var learnedAtSec int64
	if err := r.db.QueryRowContext(ctx, query,
		entry.Question,
		entry.Answer,
		entry.Category,
	).Scan(&entry.ID, &learnedAtSec, &entry.UsageCount); err != nil {
		return err
	}
	entry.LearnedAt = learnedAtSec * 1000
	return nil
}

func (r *knowledgeRepository) GetByID(ctx context.Context, id int64) (*domain.KnowledgeBaseEntry, error) {
	const query = `
        SELECT id, question, answer, category, learned_at, usage_count
        FROM knowledge_base WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanKnowledgeEntry(row)
}

func (r *knowledgeRepository) List(ctx context.Context) ([]domain.KnowledgeBaseEntry, error) {
	const query = `
        SELECT id, question, answer, category, learned_at, usage_count
        FROM knowledge_base
        ORDER BY learned_at DESC, id DESC`
	return r.fetchMany(ctx, query)
}

func (r *knowledgeRepository) Search(ctx context.Context, query string, limit int) ([]domain.KnowledgeBaseEntry, error) {
	const stmt = `
        SELECT id, question, answer, category, learned_at, usage_count
        FROM knowledge_base
        WHERE LOWER(question) LIKE ? OR LOWER(answer) LIKE ?
        ORDER BY usage_count DESC, learned_at DESC, id DESC
        LIMIT ?`
	pattern := "%" + strings.ToLower(query) + "%"
	return r.fetchMany(ctx, stmt, pattern, pattern, limit)
}

func (r *knowledgeRepository) IncrementUsage(ctx context.Context, id int64) (*domain.KnowledgeBaseEntry, error) {
	const query = `
        UPDATE knowledge_base
        SET usage_count = usage_count + 1
        WHERE id = ?
        RETURNING id, question, answer, category, learned_at, usage_count`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanKnowledgeEntry(row)
}

func (r *knowledgeRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.KnowledgeBaseEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.KnowledgeBaseEntry, 0)
	for rows.Next() {
		entry, err := scanKnowledgeEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanKnowledgeEntry(row rowScanner) (*domain.KnowledgeBaseEntry, error) {
	var entry domain.KnowledgeBaseEntry
	var category sql.NullString
	var learnedAtSec int64
	if err := row.Scan(
		&entry.ID,
		&entry.Question,
		&entry.Answer,
		&category,
		&learnedAtSec,
		&entry.UsageCount,
	); err != nil {
		return nil, err
	}
	if category.Valid {
		entry.Category = &category.String
	}
	entry.LearnedAt = learnedAtSec * 1000
	return &entry, nil
}
