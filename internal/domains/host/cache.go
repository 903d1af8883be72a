package host

import "github.com/google/uuid"

// Cache key layout: instance keys are addressed by the owning user id, so a
// host profile can be resolved without first looking up its own id.
const CacheKeyAll = "hosts"

func CacheKey(userID uuid.UUID) string {
	return "host_profile_" + userID.String()
}
