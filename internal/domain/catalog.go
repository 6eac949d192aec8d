package domain

import "time"

// CatalogResource names a reorderable admin collection.
type CatalogResource string

const (
	ResourceReviews     CatalogResource = "reviews"
	ResourceBlogs       CatalogResource = "blogs"
	ResourceCountries   CatalogResource = "countries"
	ResourceTeamMembers CatalogResource = "team-members"
	ResourceVisas       CatalogResource = "visas"
)

// KnownResource reports whether name is one of the reorderable collections.
func KnownResource(name string) bool {
	switch CatalogResource(name) {
	case ResourceReviews, ResourceBlogs, ResourceCountries, ResourceTeamMembers, ResourceVisas:
		return true
	}
	return false
}

// CatalogEntry is the projection of any orderable catalog entity that list
// and reorder operations care about. Position is not required to be
// contiguous or zero-based; lists are rendered ascending by position with
// the fetch order as tiebreak.
type CatalogEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e CatalogEntry) OrderID() string { return e.ID }
func (e CatalogEntry) OrderIndex() int { return e.Position }
