package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository implements SubscriptionRepository with PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new repository.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// LatestByUserID returns the newest subscription row for a user, or nil when
// the user has none.
func (r *PostgresSubscriptionRepository) LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, trial_ends_at,
		       current_period_end, cancel_at_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var row struct {
		id                uuid.UUID
		userID            uuid.UUID
		planID            *string
		status            string
		trialEndsAt       *time.Time
		currentPeriodEnd  *time.Time
		cancelAtPeriodEnd bool
		createdAt         time.Time
		updatedAt         time.Time
	}

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&row.id,
		&row.userID,
		&row.planID,
		&row.status,
		&row.trialEndsAt,
		&row.currentPeriodEnd,
		&row.cancelAtPeriodEnd,
		&row.createdAt,
		&row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Subscription{
		ID:                row.id,
		UserID:            row.userID,
		PlanID:            row.planID,
		Status:            domain.SubscriptionStatus(row.status),
		TrialEndsAt:       row.trialEndsAt,
		CurrentPeriodEnd:  row.currentPeriodEnd,
		CancelAtPeriodEnd: row.cancelAtPeriodEnd,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}
