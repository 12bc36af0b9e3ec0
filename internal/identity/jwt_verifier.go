// Package identity resolves bearer credentials to user ids.
package identity

import (
	"context"
	"fmt"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTVerifier validates platform-issued HS256 access tokens locally. The
// token subject carries the user id.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Resolve parses and validates the token and returns its subject. Every
// validation failure collapses to ErrInvalidCredential.
func (v *JWTVerifier) Resolve(_ context.Context, credential string) (uuid.UUID, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidCredential
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return uuid.Nil, domain.ErrInvalidCredential
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredential
	}
	return userID, nil
}
