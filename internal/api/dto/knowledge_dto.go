package dto

// KnowledgeEntryResponse wire shape.
type KnowledgeEntryResponse struct {
	ID         int64   `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   *string `json:"category"`
	LearnedAt  int64   `json:"learnedAt"`
	UsageCount int64   `json:"usageCount"`
}
