package domain

import (
	"context"
	"encoding/json"
)

// SortOrder selects the client-side price ordering of a fetched page.
type SortOrder string

const (
	SortNone      SortOrder = "none"
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// ParseSortOrder maps a query-parameter value to a SortOrder.
// Unknown values fall back to SortNone.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// ListQuery is the tuple that fully determines one gateway request:
// a 1-based page, a fixed page size, and an optional search string.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

// Normalize clamps the query to the gateway's expectations: Page >= 1
// and a positive PerPage (falling back to the given default).
func (q ListQuery) Normalize(defaultPerPage int) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	return q
}

// Listing is one decoded gateway response page. Raw retains the exact
// body the gateway sent so the proxy endpoint can relay it unchanged.
type Listing struct {
	Cars  []Car
	Total int64
	Raw   json.RawMessage
}

// CarPage is a fully assembled result page for rendering: the (possibly
// resorted) cars plus pagination metadata derived from the query.
type CarPage struct {
	Items      []Car     `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
	Sort       SortOrder `json:"sort,omitempty"`
}

// ListingGateway is the data access interface for the remote listings API.
type ListingGateway interface {
	List(ctx context.Context, q ListQuery) (*Listing, error)
}

// CatalogService is the business logic interface for the vehicle catalog.
type CatalogService interface {
	// ListCars fetches one catalog page and applies the requested
	// client-side price ordering.
	ListCars(ctx context.Context, q ListQuery, order SortOrder) (*CarPage, error)
	// PerPage reports the fixed catalog page size.
	PerPage() int
}
