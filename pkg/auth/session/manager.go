package session

import (
	"context"
	"fmt"
	"strings"

	redisclient "github.com/angelmondragon/bazaar-backend/pkg/redis"
)

type sessionStore interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Checker verifies that an access token's jti still maps to a live session
// written by the identity service. Logout on that side deletes the key.
type Checker struct {
	store sessionStore
	keyer sessionKeyer
}

// NewChecker constructs a session checker backed by Redis.
func NewChecker(client *redisclient.Client) (*Checker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Checker{store: client, keyer: client}, nil
}

// HasSession reports whether the provided access ID still has an active session.
func (c *Checker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	return c.store.Exists(ctx, c.keyer.AccessSessionKey(accessID))
}
