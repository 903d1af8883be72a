package user

import "github.com/google/uuid"

// Cache key layout: one instance key per account plus a single aggregate
// snapshot. Exported because a host verification also touches these keys
// (the promoted role must not be served stale).
const CacheKeyAll = "users"

func CacheKey(id uuid.UUID) string {
	return "user_profile_" + id.String()
}
