package domain

import "time"

// statusTimeFormat is the millisecond ISO-8601 form the mobile clients parse.
const statusTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// EntitlementStatus is the snapshot returned to callers. It is derived fresh
// on every evaluation and never persisted.
type EntitlementStatus struct {
	IsActive          bool    `json:"isActive"`
	Plan              *string `json:"plan"`
	TrialEndsAt       *string `json:"trialEndsAt"`
	CurrentPeriodEnd  *string `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool    `json:"cancelAtPeriodEnd"`
}

// NewEntitlementStatus computes the entitlement snapshot for a subscription at
// now. Trial and paid windows are evaluated independently and combined with a
// plain OR: a mid-trial user is active whatever the provider status says, and
// a lapsed trial does not mask an open paid period. A nil subscription means
// the user never subscribed and yields the zero snapshot.
func NewEntitlementStatus(sub *Subscription, now time.Time) EntitlementStatus {
	if sub == nil {
		return EntitlementStatus{}
	}
	return EntitlementStatus{
		IsActive:          sub.TrialActiveAt(now) || sub.PaidActiveAt(now),
		Plan:              sub.PlanID,
		TrialEndsAt:       formatInstant(sub.TrialEndsAt),
		CurrentPeriodEnd:  formatInstant(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(statusTimeFormat)
	return &s
}
