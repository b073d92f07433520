package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/repository"
)

var _ repository.RequestRepository = (*DB)(nil)

func (db *DB) CreateRequest(ctx context.Context, req *model.FoodRequest) error {
	req.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO food_requests
		 (id, food_id, requester_email, requester_name, request_date, additional_notes, extra, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.FoodID, req.RequesterEmail, req.RequesterName,
		req.RequestDate, req.AdditionalNotes, req.Extra, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating food request: %w", err)
	}
	return nil
}

func (db *DB) RequestsByRequester(ctx context.Context, email string) ([]model.FoodRequest, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, food_id, requester_email, requester_name, request_date, additional_notes, extra
		 FROM food_requests
		 WHERE requester_email = ?
		 ORDER BY id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing requests for %s: %w", email, err)
	}
	defer rows.Close()

	requests := make([]model.FoodRequest, 0)
	for rows.Next() {
		var r model.FoodRequest
		if err := rows.Scan(
			&r.ID, &r.FoodID, &r.RequesterEmail, &r.RequesterName,
			&r.RequestDate, &r.AdditionalNotes, &r.Extra,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning request row: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating requests: %w", err)
	}

	return requests, nil
}
