package dto

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CustomerResponse wire shape. Timestamps are epoch-milliseconds.
type CustomerResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt int64  `json:"createdAt"`
}
