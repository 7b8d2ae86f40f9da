package catalog

import (
	"context"

	"github.com/plexcars/catalog/internal/domain"
	"github.com/plexcars/catalog/internal/pkg"
)

// DefaultPerPage is the catalog page size used when none is configured.
const DefaultPerPage = 12

// catalogService implements domain.CatalogService on top of the
// listings gateway. It owns no listing state: every call fetches a
// fresh page and applies the requested client-side ordering to it.
type catalogService struct {
	gw      domain.ListingGateway
	perPage int
}

// NewService creates a CatalogService backed by the given gateway with
// a fixed page size.
func NewService(gw domain.ListingGateway, perPage int) domain.CatalogService {
	if gw == nil {
		panic("catalog.NewService: gateway must not be nil")
	}
	if perPage < 1 {
		panic("catalog.NewService: perPage must be positive")
	}
	return &catalogService{gw: gw, perPage: perPage}
}

// ListCars fetches one catalog page and, when order is not SortNone,
// resorts the fetched items by price in memory. The resort never
// changes Total or Page: it reorders only what the gateway returned.
func (s *catalogService) ListCars(ctx context.Context, q domain.ListQuery, order domain.SortOrder) (*domain.CarPage, error) {
	q = q.Normalize(s.perPage)

	listing, err := s.gw.List(ctx, q)
	if err != nil {
		return nil, err
	}

	items := listing.Cars
	if order != domain.SortNone {
		items = sortedByPrice(items, order)
	}

	return pkg.NewCarPage(items, listing.Total, q, order), nil
}

// PerPage reports the fixed catalog page size.
func (s *catalogService) PerPage() int {
	return s.perPage
}
