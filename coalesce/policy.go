package coalesce

import "time"

// ExpiryPolicy decides whether a settled entry is still served.
type ExpiryPolicy interface {
	Expired(insertedAt, now time.Time) bool
}

// NoExpiry keeps entries until they are invalidated or the coalescer closes.
type NoExpiry struct{}

func (NoExpiry) Expired(time.Time, time.Time) bool { return false }

// TTLPolicy drops entries older than TTL. A non-positive TTL never expires.
type TTLPolicy struct {
	TTL time.Duration
}

func (p TTLPolicy) Expired(insertedAt, now time.Time) bool {
	if p.TTL <= 0 {
		return false
	}
	return now.Sub(insertedAt) >= p.TTL
}

// PolicyFromConfig maps the cache.policy setting to a policy.
func PolicyFromConfig(name string, ttlSeconds int) ExpiryPolicy {
	if name == "ttl" && ttlSeconds > 0 {
		return TTLPolicy{TTL: time.Duration(ttlSeconds) * time.Second}
	}
	return NoExpiry{}
}
