// Package application implements the subscription entitlement check.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
)

// Evaluator computes a user's entitlement snapshot from their most recent
// subscription row. It is a pure function of the resolved credential, the row,
// and now; the only side effect is the read against the repository.
type Evaluator struct {
	verifier      domain.CredentialVerifier
	subscriptions domain.SubscriptionRepository
}

// NewEvaluator creates an evaluator.
func NewEvaluator(verifier domain.CredentialVerifier, subscriptions domain.SubscriptionRepository) *Evaluator {
	return &Evaluator{verifier: verifier, subscriptions: subscriptions}
}

// Evaluate resolves the credential and derives the entitlement snapshot at
// now. It fails with domain.ErrUnauthorized when the credential is missing or
// unresolvable and domain.ErrBackendUnavailable when the verifier or record
// store is down. Having no subscription row is not an error; it yields the
// zero snapshot.
func (e *Evaluator) Evaluate(ctx context.Context, credential string, now time.Time) (domain.EntitlementStatus, error) {
	if credential == "" {
		return domain.EntitlementStatus{}, fmt.Errorf("%w: no credential provided", domain.ErrUnauthorized)
	}

	userID, err := e.verifier.Resolve(ctx, credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			// Bad token and unknown user are deliberately indistinguishable.
			return domain.EntitlementStatus{}, domain.ErrUnauthorized
		}
		return domain.EntitlementStatus{}, fmt.Errorf("%w: resolving credential: %v", domain.ErrBackendUnavailable, err)
	}

	sub, err := e.subscriptions.LatestByUserID(ctx, userID)
	if err != nil {
		return domain.EntitlementStatus{}, fmt.Errorf("%w: fetching subscription: %v", domain.ErrBackendUnavailable, err)
	}

	return domain.NewEntitlementStatus(sub, now), nil
}
