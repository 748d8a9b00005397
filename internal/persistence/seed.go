package persistence

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

type seedRequest struct {
	question string
	status   string
	answer   *string
}

type seedEntry struct {
	question string
	answer   string
	category string
}

// Seed inserts demo data for local dashboards. It is a no-op unless the
// customers table is empty.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("database already populated; skipping seed")
		return nil
	}

	customers := []struct{ name, phone string }{
		{"Sarah Johnson", "+1 (555) 234-5678"},
		{"Michael Chen", "+1 (555) 345-6789"},
		{"Emma Rodriguez", "+1 (555) 456-7890"},
	}
	facial := "Our regular facial is a 60-minute treatment focusing on cleansing, exfoliation, and hydration. The deep cleansing facial is 75 minutes and includes steam, extractions, and a purifying mask - it's better for acne-prone or congested skin. Both are $80, but the deep cleansing is $95."
	requests := []seedRequest{
		{question: "Do you offer bridal makeup packages for weddings?", status: "pending"},
		{question: "Can I get a same-day appointment for men's haircut this afternoon?", status: "pending"},
		{question: "What's the difference between your regular facial and the deep cleansing facial?", status: "resolved", answer: &facial},
	}
	entries := []seedEntry{
		{"Do you accept walk-ins?", "Yes, we accept walk-ins based on availability, but we highly recommend booking an appointment to ensure your preferred time and stylist. You can book online or call us at (555) 123-4567.", "scheduling"},
		{"What should I do if I need to cancel my appointment?", "We require 24-hour notice for cancellations to avoid a cancellation fee. You can cancel by calling us at (555) 123-4567 or through our online booking system. Same-day cancellations may incur a $25 fee.", "policies"},
		{"Do you sell gift certificates?", "Yes! We offer gift certificates in any amount. They make perfect gifts and never expire. You can purchase them in person at our salon or call us to arrange delivery.", "general"},
		{"Can I bring my child to my appointment?", "We love kids! However, for safety and to ensure you can fully relax during your service, we kindly ask that children be supervised. If you need to bring your child, please let us know in advance so we can accommodate you.", "policies"},
		{"What products do you use?", "We use premium professional products including Redken, Olaplex for hair treatments, OPI for nails, and Dermalogica for skincare. All our products are high-quality and recommended by our stylists.", "products"},
	}

	customerIDs := make([]int64, 0, len(customers))
	for _, c := range customers {
		res, err := db.ExecContext(ctx, "INSERT INTO customers (name, phone) VALUES (?, ?)", c.name, c.phone)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		customerIDs = append(customerIDs, id)
	}

	for i, r := range requests {
		var err error
		if r.status == "resolved" {
			_, err = db.ExecContext(ctx, `
				INSERT INTO help_requests (customer_id, question, status, answer, resolved_at)
				VALUES (?, ?, ?, ?, unixepoch())`,
				customerIDs[i], r.question, r.status, r.answer)
		} else {
			_, err = db.ExecContext(ctx, `
				INSERT INTO help_requests (customer_id, question, status)
				VALUES (?, ?, ?)`,
				customerIDs[i], r.question, r.status)
		}
		if err != nil {
			return err
		}
	}

	for _, e := range entries {
		_, err := db.ExecContext(ctx, "INSERT INTO knowledge_base (question, answer, category) VALUES (?, ?, ?)",
			e.question, e.answer, e.category)
		if err != nil {
			return err
		}
	}

	logger.Info("seeded demo data",
		zap.Int("customers", len(customers)),
		zap.Int("help_requests", len(requests)),
		zap.Int("knowledge_entries", len(entries)))
	return nil
}
