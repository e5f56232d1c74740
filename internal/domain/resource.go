package domain

import "time"

// Site is a physical location with courts (e.g. a park)
type Site struct {
	ID             int64
	OrganisationID int64
	Name           string
	Slug           string
	IsActive       bool
	Latitude       float64
	Longitude      float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Resource is an individual bookable court at a site.
// Immutable once created; admins only toggle the activation flag.
type Resource struct {
	ID             int64
	SiteID         int64
	OrganisationID int64
	Name           string
	Slug           string
	IsActive       bool

	Surface        string // hard, clay, grass, artificial
	IsIndoor       bool
	HasFloodlights bool

	SortOrder int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasFixedClose returns true if the court closes at the hard 21:00 cap
// regardless of daylight (indoor or floodlit courts)
func (r *Resource) HasFixedClose() bool {
	return r.IsIndoor || r.HasFloodlights
}
