package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/repository"
)

var _ repository.PaymentRepository = (*DB)(nil)

func (db *DB) CreatePayment(ctx context.Context, p *model.Payment) error {
	p.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO payments (id, email, amount, currency, transaction_id, date, extra, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.Amount, p.Currency, p.TransactionID, p.Date, p.Extra, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating payment: %w", err)
	}
	return nil
}

func (db *DB) PaymentsByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, amount, currency, transaction_id, date, extra
		 FROM payments
		 WHERE email = ?
		 ORDER BY id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing payments for %s: %w", email, err)
	}
	defer rows.Close()

	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.Email, &p.Amount, &p.Currency, &p.TransactionID, &p.Date, &p.Extra,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating payments: %w", err)
	}

	return payments, nil
}
