package model

import "fmt"

// Category identifies one of the scheduled data feeds.
type Category string

const (
	CategoryProperty       Category = "property"
	CategoryMarket         Category = "market"
	CategoryInfrastructure Category = "infrastructure"
)

// Categories lists every feed the pipeline schedules, in registration order.
var Categories = []Category{CategoryProperty, CategoryMarket, CategoryInfrastructure}

// Channel returns the pub/sub channel name for the category,
// e.g. "property-updates".
func (c Category) Channel() string {
	return string(c) + "-updates"
}

// CacheKey builds the colon-delimited cache key for a record of this
// category, e.g. "property:PROP123".
func (c Category) CacheKey(id string) string {
	return fmt.Sprintf("%s:%s", c, id)
}

// LatestKey is the cache key holding the most recently transformed
// payload for the category, served by the query endpoints.
func (c Category) LatestKey() string {
	return string(c) + ":latest"
}

// Valid reports whether c is one of the known feed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProperty, CategoryMarket, CategoryInfrastructure:
		return true
	}
	return false
}
