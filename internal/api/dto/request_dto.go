package dto

// CreateHelpRequestRequest payload from the phone agent.
type CreateHelpRequestRequest struct {
	CustomerID int64   `json:"customerId"`
	Question   string  `json:"question"`
	Status     *string `json:"status,omitempty"`
	Answer     *string `json:"answer,omitempty"`
}

// SubmitAnswerRequest payload from the supervisor dashboard. Status is
// accepted for compatibility with the client but the transition is always to
// resolved.
type SubmitAnswerRequest struct {
	Answer string  `json:"answer"`
	Status *string `json:"status,omitempty"`
}

// HelpRequestResponse wire shape.
type HelpRequestResponse struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	Question   string  `json:"question"`
	Status     string  `json:"status"`
	Answer     *string `json:"answer"`
	CreatedAt  int64   `json:"createdAt"`
	ResolvedAt *int64  `json:"resolvedAt"`
}

// HelpRequestWithCustomerResponse embeds the owning customer.
type HelpRequestWithCustomerResponse struct {
	HelpRequestResponse
	Customer CustomerResponse `json:"customer"`
}
