package memory

import "time"

// DefaultTTL — окно валидности записи.
const DefaultTTL = 10 * time.Minute

// IsValid — запись пригодна, если с момента получения прошло строго меньше ttl.
// ttl <= 0 — записи никогда не валидны.
func IsValid(entry Entry, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(entry.FetchedAt) < ttl
}
