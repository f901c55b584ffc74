// Package hotels implements the batched hotel-offer aggregation workflow:
// resolve the candidate hotel list for a city, retrieve priced offers in
// provider-sized batches, enrich available hotels concurrently, and
// accumulate everything into a deduplicated, sortable result set.
package hotels

// Category selects the offer-search tier. Each tier maps to a fixed set of
// provider query parameters (room quantity and price range).
type Category string

const (
	// CategoryDefault searches without tier constraints (best rate only).
	CategoryDefault Category = "default"
	// CategoryBudget searches one-room stays in the 50-150 price range.
	CategoryBudget Category = "budget"
	// CategoryStandard searches two-room stays in the 150-300 price range.
	CategoryStandard Category = "standard"
	// CategoryLuxury searches three-room stays in the 300-1000 price range.
	CategoryLuxury Category = "luxury"
)

// ParseCategory maps a user-supplied tier name to a Category.
// Unknown names fall back to CategoryDefault.
func ParseCategory(name string) Category {
	switch Category(name) {
	case CategoryBudget, CategoryStandard, CategoryLuxury:
		return Category(name)
	default:
		return CategoryDefault
	}
}

// Query holds the parameters of one search session. Two queries are the same
// session if and only if all fields match; any change starts a new session
// and discards accumulated state.
type Query struct {
	CityCode string
	CheckIn  string // YYYY-MM-DD
	CheckOut string // YYYY-MM-DD
	Adults   int
	Category Category
}

// Offer is one hotel's availability and price for the queried stay.
// PriceTotal keeps the provider's decimal string; parsing for sorting happens
// once at insertion time so float noise never reaches the display layer.
type Offer struct {
	HotelID         string
	Name            string
	Available       bool
	Currency        string
	PriceTotal      string
	RoomDescription string
	Latitude        float64
	Longitude       float64
}

// EnrichmentData contains best-effort auxiliary data for one hotel.
// Pointer fields distinguish "not set" from "empty"; any field may stay nil
// if its lookup failed or has not resolved yet.
type EnrichmentData struct {
	// PhotoURL is a display image URL for the hotel.
	PhotoURL *string

	// Rating is the display rating on a 0-5 scale. Sources reporting 0-100
	// are normalized before they reach this struct.
	Rating *float64

	// StreetAddress is the first line of the hotel's formatted address.
	StreetAddress *string
}

// Record pairs an Offer with whatever enrichment has resolved for it.
type Record struct {
	Offer      Offer
	Enrichment EnrichmentData

	// price is the parsed PriceTotal, nil when the offer carried no usable
	// price. Kept here so Snapshot can sort without reparsing.
	price *float64
}

// Price returns the parsed offer price and whether one is present.
func (r *Record) Price() (float64, bool) {
	if r.price == nil {
		return 0, false
	}
	return *r.price, true
}

// SortKey selects the comparator Snapshot uses.
type SortKey int

const (
	// SortPriceAsc orders by total price, cheapest first.
	SortPriceAsc SortKey = iota
	// SortRatingDesc orders by rating, best first.
	SortRatingDesc
	// SortNameAsc orders by hotel name A-Z.
	SortNameAsc
	// SortNameDesc orders by hotel name Z-A.
	SortNameDesc
)
