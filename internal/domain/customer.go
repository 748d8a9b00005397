package domain

// Customer stores caller information captured by the phone agent. Phone acts
// as the dedup key at creation time; rows are never updated or deleted.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt int64
}
