// Package session implements the server-trusted session layer. A session
// is a server-side record keyed by a random ID; the browser only ever
// holds a signed token wrapping that ID, so possession of the cookie
// proves nothing once the server-side record is destroyed.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "inkwell_session"

// Store persists login sessions. Resolve returns user ID 0 when the
// session does not exist or has expired; that is not an error.
type Store interface {
	Create(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, sessionID string) (uint, error)
	Destroy(ctx context.Context, sessionID string) error
}

// NewStore returns a Redis-backed store when a client is available and
// falls back to the in-process store otherwise. TTL 0 means sessions
// never expire (the original behavior); a positive TTL is recommended.
func NewStore(client *redis.Client, ttl time.Duration) Store {
	if client != nil {
		return NewRedisStore(client, ttl)
	}
	return NewMemoryStore(ttl)
}
