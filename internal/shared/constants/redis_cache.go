package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values.
// Pattern: tripvia:{module}:{operation}:{identifier}:{params?}

const (
	TTL_CATALOG_DETAIL = 2 * time.Hour
	TTL_CATALOG_LIST   = 1 * time.Hour
)

const (
	CACHE_PREFIX = "tripvia"
)

const (
	CACHE_KEY_TRIP_LIST     = CACHE_PREFIX + ":catalog:trips:list"         // + :page:X:limit:Y
	CACHE_KEY_TRIP_DETAIL   = CACHE_PREFIX + ":catalog:trips:detail:uuid:" // + trip-id
	CACHE_KEY_TRAVEL_LIST   = CACHE_PREFIX + ":catalog:travels:list"       // + :page:X:limit:Y
	CACHE_KEY_TRAVEL_DETAIL = CACHE_PREFIX + ":catalog:travels:detail:uuid:"
)

const (
	PATTERN_INVALIDATE_CATALOG = CACHE_PREFIX + ":catalog:*"
)

const (
	RATELIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)

func BuildTripDetailKey(tripID string) string {
	return CACHE_KEY_TRIP_DETAIL + tripID
}

func BuildTravelDetailKey(travelID string) string {
	return CACHE_KEY_TRAVEL_DETAIL + travelID
}

func BuildTripListKey(page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_TRIP_LIST, page, limit)
}

func BuildTravelListKey(page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_TRAVEL_LIST, page, limit)
}
