package catalog

import (
	"context"
	"testing"

	"github.com/plexcars/catalog/internal/domain"
)

// mockGateway is a canned domain.ListingGateway for service tests.
type mockGateway struct {
	listing *domain.Listing
	err     error
	lastQ   domain.ListQuery
}

func (m *mockGateway) List(_ context.Context, q domain.ListQuery) (*domain.Listing, error) {
	m.lastQ = q
	if m.err != nil {
		return nil, m.err
	}
	return m.listing, nil
}

func TestCatalogService_ListCars(t *testing.T) {
	gw := &mockGateway{listing: &domain.Listing{
		Cars: []domain.Car{
			{UniqueID: 1, Price: 300},
			{UniqueID: 2, Price: 100},
		},
		Total: 13,
	}}
	svc := NewService(gw, 12)

	page, err := svc.ListCars(context.Background(), domain.ListQuery{Page: 2, Search: "BMW"}, domain.SortNone)
	if err != nil {
		t.Fatalf("ListCars error: %v", err)
	}

	if gw.lastQ.PerPage != 12 {
		t.Errorf("gateway PerPage = %d; want fixed page size 12", gw.lastQ.PerPage)
	}
	if gw.lastQ.Page != 2 || gw.lastQ.Search != "BMW" {
		t.Errorf("gateway query = %+v; want page 2, q BMW", gw.lastQ)
	}
	if page.Total != 13 || page.TotalPages != 2 || page.Page != 2 {
		t.Errorf("page meta = %+v; want total 13, 2 pages, page 2", page)
	}
	if page.Items[0].UniqueID != 1 {
		t.Error("SortNone must keep gateway order")
	}
}

func TestCatalogService_ListCars_Sorted(t *testing.T) {
	gw := &mockGateway{listing: &domain.Listing{
		Cars: []domain.Car{
			{UniqueID: 1, Price: 300},
			{UniqueID: 2, Price: 100},
			{UniqueID: 3, Price: 200},
		},
		Total: 3,
	}}
	svc := NewService(gw, 12)

	page, err := svc.ListCars(context.Background(), domain.ListQuery{Page: 1}, domain.SortPriceDesc)
	if err != nil {
		t.Fatalf("ListCars error: %v", err)
	}

	if page.Items[0].Price != 300 || page.Items[2].Price != 100 {
		t.Errorf("desc order = %+v", page.Items)
	}
	if page.Sort != domain.SortPriceDesc {
		t.Errorf("page.Sort = %q; want desc", page.Sort)
	}
	// Sorting reorders the fetched page only; meta stays untouched.
	if page.Total != 3 || page.Page != 1 {
		t.Errorf("sort changed meta: %+v", page)
	}
}

func TestCatalogService_ListCars_NormalizesQuery(t *testing.T) {
	gw := &mockGateway{listing: &domain.Listing{}}
	svc := NewService(gw, 12)

	if _, err := svc.ListCars(context.Background(), domain.ListQuery{Page: -3}, domain.SortNone); err != nil {
		t.Fatalf("ListCars error: %v", err)
	}
	if gw.lastQ.Page != 1 {
		t.Errorf("gateway page = %d; want clamped to 1", gw.lastQ.Page)
	}
}

func TestCatalogService_ListCars_GatewayError(t *testing.T) {
	gw := &mockGateway{err: domain.ErrUnavailable}
	svc := NewService(gw, 12)

	_, err := svc.ListCars(context.Background(), domain.ListQuery{Page: 1}, domain.SortNone)
	if !domain.IsUnavailable(err) {
		t.Errorf("error = %v; want gateway error passed through", err)
	}
}

func TestCatalogService_ListCars_EmptyPage(t *testing.T) {
	gw := &mockGateway{listing: &domain.Listing{}}
	svc := NewService(gw, 12)

	page, err := svc.ListCars(context.Background(), domain.ListQuery{Page: 1}, domain.SortNone)
	if err != nil {
		t.Fatalf("ListCars error: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %v; want empty non-nil slice", page.Items)
	}
	if page.TotalPages != 0 {
		t.Errorf("TotalPages = %d; want 0", page.TotalPages)
	}
}
