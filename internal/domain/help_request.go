package domain

// RequestStatus enumerates lifecycle states for help requests.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusResolved   RequestStatus = "resolved"
	// RequestStatusTimeout is reserved for an external deadline timer; no
	// operation in this service sets it.
	RequestStatusTimeout RequestStatus = "timeout"
)

// Valid reports whether s is one of the known status values.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessing, RequestStatusResolved, RequestStatusTimeout:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusResolved || s == RequestStatusTimeout
}

// HelpRequest is an escalated customer question awaiting a supervisor answer.
// Timestamps are epoch-milliseconds; Answer and ResolvedAt are nil until the
// request is resolved and immutable afterwards.
type HelpRequest struct {
	ID         int64
	CustomerID int64
	Question   string
	Status     RequestStatus
	Answer     *string
	CreatedAt  int64
	ResolvedAt *int64
}

// HelpRequestWithCustomer joins a request with its owning customer. Every
// request must resolve to exactly one customer; a dangling reference is an
// integrity fault, not a normal not-found.
type HelpRequestWithCustomer struct {
	HelpRequest
	Customer Customer
}
