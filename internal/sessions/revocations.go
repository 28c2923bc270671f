package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/eclatdining/eclat-api/pkg/middleware"
	"github.com/redis/go-redis/v9"
)

var ErrRevoked = errors.New("token has been revoked")

// Revocations remembers signed-out admin access tokens in Redis until they
// would have expired anyway. A nil *Revocations, or one without a client, is
// a no-op.
type Revocations struct {
	client *redis.Client
	prefix string
}

func NewRevocations(c *redis.Client) *Revocations {
	return &Revocations{client: c, prefix: "blacklist:access:"}
}

// Revoke stores the token with the given TTL.
func (r *Revocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r == nil || r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+token, "1", ttl).Err()
}

// IsRevoked reports whether token was signed out.
func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Wrap returns a verifier that rejects revoked tokens before delegating to v.
func (r *Revocations) Wrap(v middleware.Verifier) middleware.Verifier {
	return &checkingVerifier{inner: v, revocations: r}
}

type checkingVerifier struct {
	inner       middleware.Verifier
	revocations *Revocations
}

func (cv *checkingVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	revoked, err := cv.revocations.IsRevoked(ctx, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return cv.inner.Verify(ctx, raw)
}
