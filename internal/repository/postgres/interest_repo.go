package postgres

import (
	"context"
	"database/sql"
	"errors"

	"warriorhub/internal/domain"

	"github.com/lib/pq"
)

type interestRepository struct {
	DB *sql.DB
}

// NewInterestRepository returns a domain.InterestRepository implemented with Postgres.
func NewInterestRepository(db *sql.DB) domain.InterestRepository {
	return &interestRepository{DB: db}
}

// Toggle flips the interest row for (userID, eventID) in a single transaction.
// The delete-then-insert pair plus the ON CONFLICT guard keeps concurrent
// duplicate submissions from double-inserting.
func (r *interestRepository) Toggle(ctx context.Context, userID int64, eventID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_interests WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		if invalidTextRep(err) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_interests (user_id, event_id) VALUES ($1, $2) ON CONFLICT (user_id, event_id) DO NOTHING`,
		userID, eventID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && (perr.Code == "23503" || perr.Code == "22P02") {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return true, tx.Commit()
}

func (r *interestRepository) IsInterested(ctx context.Context, userID int64, eventID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_interests WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		if invalidTextRep(err) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return exists, nil
}
