package domain

// CategorySupervisorTaught tags knowledge entries captured from a live
// escalation answered by a supervisor.
const CategorySupervisorTaught = "supervisor-taught"

// KnowledgeBaseEntry is a learned Q&A pair available for future automated
// answers. Entries are append-only except for UsageCount.
type KnowledgeBaseEntry struct {
	ID         int64
	Question   string
	Answer     string
	Category   *string
	LearnedAt  int64
	UsageCount int64
}
