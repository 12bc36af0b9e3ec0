package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the billing state reported by the payment provider.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription is one row of a user's billing history. Rows are written by the
// external billing integration; this service only ever reads them.
type Subscription struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	PlanID            *string
	Status            SubscriptionStatus
	TrialEndsAt       *time.Time
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TrialActiveAt reports whether the trial window covers now. The boundary is
// exclusive: a trial ending exactly at now has ended.
func (s *Subscription) TrialActiveAt(now time.Time) bool {
	return s != nil && s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// PaidActiveAt reports whether a paid period covers now. An open period alone
// is not enough; the provider status must also be "active".
func (s *Subscription) PaidActiveAt(now time.Time) bool {
	return s != nil && s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.After(now) &&
		s.Status == SubscriptionActive
}
