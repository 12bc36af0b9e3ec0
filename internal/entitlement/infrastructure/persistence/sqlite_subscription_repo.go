package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/google/uuid"
)

// SQLiteSubscriptionRepository implements SubscriptionRepository with SQLite.
// Timestamps are stored as RFC 3339 strings.
type SQLiteSubscriptionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSubscriptionRepository creates a new repository.
func NewSQLiteSubscriptionRepository(dbConn *sql.DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{dbConn: dbConn}
}

// LatestByUserID returns the newest subscription row for a user, or nil when
// the user has none.
func (r *SQLiteSubscriptionRepository) LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, trial_ends_at,
		       current_period_end, cancel_at_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		id                string
		rowUserID         string
		planID            sql.NullString
		status            string
		trialEndsAt       sql.NullString
		currentPeriodEnd  sql.NullString
		cancelAtPeriodEnd sql.NullBool
		createdAt         string
		updatedAt         string
	)

	err := r.dbConn.QueryRowContext(ctx, query, userID.String()).Scan(
		&id,
		&rowUserID,
		&planID,
		&status,
		&trialEndsAt,
		&currentPeriodEnd,
		&cancelAtPeriodEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	sub := &domain.Subscription{
		Status:            domain.SubscriptionStatus(status),
		CancelAtPeriodEnd: cancelAtPeriodEnd.Valid && cancelAtPeriodEnd.Bool,
	}
	if sub.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing subscription id: %w", err)
	}
	if sub.UserID, err = uuid.Parse(rowUserID); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	if planID.Valid {
		sub.PlanID = &planID.String
	}
	if sub.TrialEndsAt, err = parseNullTime(trialEndsAt); err != nil {
		return nil, fmt.Errorf("parsing trial_ends_at: %w", err)
	}
	if sub.CurrentPeriodEnd, err = parseNullTime(currentPeriodEnd); err != nil {
		return nil, fmt.Errorf("parsing current_period_end: %w", err)
	}
	if sub.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sub.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return sub, nil
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
