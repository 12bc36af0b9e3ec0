package domain

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionRepository reads billing rows written by the external billing
// integration.
type SubscriptionRepository interface {
	// LatestByUserID returns the most recently created subscription for the
	// user, or nil when the user never subscribed. Older rows are ignored.
	LatestByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

// CredentialVerifier resolves a bearer credential to a user id.
// Implementations return ErrInvalidCredential when the credential is rejected
// and any other error for infrastructure failures.
type CredentialVerifier interface {
	Resolve(ctx context.Context, credential string) (uuid.UUID, error)
}
