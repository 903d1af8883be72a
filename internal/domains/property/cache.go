package property

import "github.com/google/uuid"

// Cache key layout: one instance key per listing plus the aggregate snapshot
// of everything bookable.
const CacheKeyAll = "properties"

func CacheKey(id uuid.UUID) string {
	return "property_" + id.String()
}
