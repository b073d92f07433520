package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/sustaineats/internal/apperror"
	"github.com/sakif/sustaineats/internal/model"
	"github.com/sakif/sustaineats/internal/repository"
)

var _ repository.FoodRepository = (*DB)(nil)

const foodColumns = `id, food_name, food_image, food_quantity, pickup_location, expired_date,
	additional_notes, food_status, donator_name, donator_email, donator_image, extra`

// querier is the subset of *sql.DB and *sql.Tx the food helpers need, so the
// same code runs inside and outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanFood(s scanner) (model.FoodListing, error) {
	var f model.FoodListing
	err := s.Scan(
		&f.ID, &f.FoodName, &f.FoodImage, &f.FoodQuantity, &f.PickupLocation, &f.ExpiredDate,
		&f.AdditionalNotes, &f.FoodStatus, &f.DonatorName, &f.DonatorEmail, &f.DonatorImage, &f.Extra,
	)
	return f, err
}

// CreateFood inserts a listing and assigns it a fresh xid.
func (db *DB) CreateFood(ctx context.Context, food *model.FoodListing) error {
	food.ID = xid.New().String()
	if err := insertFood(ctx, db.conn, food); err != nil {
		return fmt.Errorf("sqlite: creating food: %w", err)
	}
	return nil
}

func insertFood(ctx context.Context, q querier, f *model.FoodListing) error {
	now := time.Now()
	_, err := q.ExecContext(ctx,
		`INSERT INTO foods (`+foodColumns+`, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.FoodName, f.FoodImage, f.FoodQuantity, f.PickupLocation, f.ExpiredDate,
		f.AdditionalNotes, f.FoodStatus, f.DonatorName, f.DonatorEmail, f.DonatorImage, f.Extra,
		now, now,
	)
	return err
}

// GetFood returns apperror.ErrNotFound when no listing has this id.
func (db *DB) GetFood(ctx context.Context, id string) (*model.FoodListing, error) {
	return getFood(ctx, db.conn, id)
}

func getFood(ctx context.Context, q querier, id string) (*model.FoodListing, error) {
	f, err := scanFood(q.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("food", id)
		}
		return nil, fmt.Errorf("sqlite: getting food %s: %w", id, err)
	}
	return &f, nil
}

// ListFoods filters by status and name substring.
//
// SQLite's LIKE folds case for ASCII letters only, which covers the
// catalog's search box. Sorting by expiry always adds id as a tie-break so
// equal dates come back in a stable order.
func (db *DB) ListFoods(ctx context.Context, q repository.FoodQuery) ([]model.FoodListing, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE food_status = ?`
	args := []any{q.Status}

	if q.Search != "" {
		query += ` AND food_name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	switch q.Sort {
	case repository.SortAsc:
		query += ` ORDER BY expired_date ASC, id ASC`
	case repository.SortDesc:
		query += ` ORDER BY expired_date DESC, id ASC`
	default:
		query += ` ORDER BY id ASC`
	}

	return db.queryFoods(ctx, "listing foods", query, args...)
}

func (db *DB) TopFoodsByQuantity(ctx context.Context, status string, limit int) ([]model.FoodListing, error) {
	return db.queryFoods(ctx, "listing top foods",
		`SELECT `+foodColumns+` FROM foods
		 WHERE food_status = ?
		 ORDER BY food_quantity DESC, id ASC
		 LIMIT ?`,
		status, limit,
	)
}

func (db *DB) FoodsByDonor(ctx context.Context, email string) ([]model.FoodListing, error) {
	return db.queryFoods(ctx, "listing foods by donor",
		`SELECT `+foodColumns+` FROM foods WHERE donator_email = ? ORDER BY id ASC`,
		email,
	)
}

func (db *DB) queryFoods(ctx context.Context, op, query string, args ...any) ([]model.FoodListing, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	foods := make([]model.FoodListing, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning food row: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating foods: %w", err)
	}

	return foods, nil
}

// UpsertFood reads, checks the donor, merges and writes inside one
// transaction, so neither a concurrent patch nor a delete-and-recreate by
// another donor can slip in between the check and the write.
func (db *DB) UpsertFood(ctx context.Context, id, owner string, patch model.FoodPatch) (*model.UpdateResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning upsert of food %s: %w", id, err)
	}
	defer tx.Rollback()

	result := &model.UpdateResult{Acknowledged: true}

	existing, err := getFood(ctx, tx, id)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		food := model.FoodListing{ID: id, FoodStatus: model.StatusAvailable, DonatorEmail: owner}
		patch.Apply(&food)
		if err := insertFood(ctx, tx, &food); err != nil {
			return nil, fmt.Errorf("sqlite: inserting food %s: %w", id, err)
		}
		upserted := id
		result.UpsertedID = &upserted
		result.UpsertedCount = 1

	case err != nil:
		return nil, err

	case owner != "" && existing.DonatorEmail != owner:
		return nil, apperror.Forbidden("only the donor can update this listing")

	default:
		before := *existing
		patch.Apply(existing)
		result.MatchedCount = 1
		if !reflect.DeepEqual(before, *existing) {
			if err := updateFood(ctx, tx, existing); err != nil {
				return nil, fmt.Errorf("sqlite: updating food %s: %w", id, err)
			}
			result.ModifiedCount = 1
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing upsert of food %s: %w", id, err)
	}
	return result, nil
}

func updateFood(ctx context.Context, q querier, f *model.FoodListing) error {
	_, err := q.ExecContext(ctx,
		`UPDATE foods
		 SET food_name = ?, food_image = ?, food_quantity = ?, pickup_location = ?,
		     expired_date = ?, additional_notes = ?, food_status = ?, donator_name = ?,
		     donator_email = ?, donator_image = ?, extra = ?, updated_at = ?
		 WHERE id = ?`,
		f.FoodName, f.FoodImage, f.FoodQuantity, f.PickupLocation,
		f.ExpiredDate, f.AdditionalNotes, f.FoodStatus, f.DonatorName,
		f.DonatorEmail, f.DonatorImage, f.Extra, time.Now(),
		f.ID,
	)
	return err
}

// SetFoodStatus replaces the status field only. A missing listing is not an
// error: the result simply reports zero matches.
func (db *DB) SetFoodStatus(ctx context.Context, id, status string) (*model.UpdateResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning status update of food %s: %w", id, err)
	}
	defer tx.Rollback()

	result := &model.UpdateResult{Acknowledged: true}

	var current string
	err = tx.QueryRowContext(ctx, `SELECT food_status FROM foods WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading status of food %s: %w", id, err)
	}
	result.MatchedCount = 1

	if current != status {
		if _, err := tx.ExecContext(ctx,
			`UPDATE foods SET food_status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now(), id,
		); err != nil {
			return nil, fmt.Errorf("sqlite: updating status of food %s: %w", id, err)
		}
		result.ModifiedCount = 1
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing status update of food %s: %w", id, err)
	}
	return result, nil
}

func (db *DB) DeleteFood(ctx context.Context, id, owner string) (*model.DeleteResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning delete of food %s: %w", id, err)
	}
	defer tx.Rollback()

	var donor string
	err = tx.QueryRowContext(ctx, `SELECT donator_email FROM foods WHERE id = ?`, id).Scan(&donor)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.DeleteResult{Acknowledged: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading donor of food %s: %w", id, err)
	}
	if owner != "" && donor != owner {
		return nil, apperror.Forbidden("only the donor can delete this listing")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: deleting food %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing delete of food %s: %w", id, err)
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
