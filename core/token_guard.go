package core

import (
	"time"
)

// A verified lifecycle token is remembered here until its natural expiry,
// so a captured activation or reset link cannot be replayed. The database
// state (verified flag, rotated password hash) already rejects most
// replays; the cache closes the remaining no-op cases.
const consumedTokenKeyPrefix = "consumed:"

func (a *App) tokenConsumed(token string) bool {
	if a.cache == nil {
		return false
	}
	_, found := a.cache.Get(consumedTokenKeyPrefix + token)
	return found
}

func (a *App) markTokenConsumed(token string, ttl time.Duration) {
	if a.cache == nil {
		return
	}
	a.cache.SetWithTTL(consumedTokenKeyPrefix+token, struct{}{}, 1, ttl)
}
