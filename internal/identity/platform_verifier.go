package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// PlatformVerifier resolves bearer tokens against the auth platform's user
// endpoint. A circuit breaker keeps a failing platform from absorbing every
// request while it is down; rejected credentials do not count as failures.
type PlatformVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[uuid.UUID]
	logger  *slog.Logger
}

// PlatformVerifierConfig configures the verifier.
type PlatformVerifierConfig struct {
	// BaseURL is the auth platform root, e.g. https://project.example.co.
	BaseURL string
	// APIKey is sent in the apikey header alongside the user's bearer token.
	APIKey string
	// Timeout bounds each resolution request.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewPlatformVerifier creates a verifier.
func NewPlatformVerifier(cfg PlatformVerifierConfig) *PlatformVerifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	v := &PlatformVerifier{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}

	settings := gobreaker.Settings{
		Name:        "identity-platform",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrInvalidCredential)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("identity breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	v.breaker = gobreaker.NewCircuitBreaker[uuid.UUID](settings)

	return v
}

// Resolve asks the platform who owns the token.
func (v *PlatformVerifier) Resolve(ctx context.Context, credential string) (uuid.UUID, error) {
	return v.breaker.Execute(func() (uuid.UUID, error) {
		return v.fetchUser(ctx, credential)
	})
}

func (v *PlatformVerifier) fetchUser(ctx context.Context, credential string) (uuid.UUID, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("building user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("calling identity platform: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return uuid.Nil, domain.ErrInvalidCredential
	case resp.StatusCode != http.StatusOK:
		return uuid.Nil, fmt.Errorf("identity platform returned status %d", resp.StatusCode)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return uuid.Nil, fmt.Errorf("decoding user response: %w", err)
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredential
	}
	return userID, nil
}
