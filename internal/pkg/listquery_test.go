package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plexcars/catalog/internal/domain"
)

func testContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want domain.ListQuery
	}{
		{"defaults", "/?", domain.ListQuery{Page: 1, PerPage: 12}},
		{"page_and_search", "/?page=3&q=BMW", domain.ListQuery{Page: 3, PerPage: 12, Search: "BMW"}},
		{"invalid_page_clamped", "/?page=abc", domain.ListQuery{Page: 1, PerPage: 12}},
		{"negative_page_clamped", "/?page=-2", domain.ListQuery{Page: 1, PerPage: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseListQuery(testContext(t, tt.url), 12)
			if got != tt.want {
				t.Errorf("ParseListQuery() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		perPage int
		want    int
	}{
		{"zero_items_zero_pages", 0, 12, 0},
		{"exact_division", 24, 12, 2},
		{"partial_last_page", 13, 12, 2},
		{"single_item", 1, 12, 1},
		{"full_single_page", 12, 12, 1},
		{"invalid_per_page", 10, 0, 0},
		{"negative_total", -1, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageCount(tt.total, tt.perPage); got != tt.want {
				t.Errorf("PageCount(%d, %d) = %d; want %d", tt.total, tt.perPage, got, tt.want)
			}
		})
	}
}

func TestNewCarPage(t *testing.T) {
	q := domain.ListQuery{Page: 2, PerPage: 12, Search: "BMW"}
	items := []domain.Car{{UniqueID: 7, MarkID: "BMW", Price: 2000000}}

	page := NewCarPage(items, 13, q, domain.SortNone)

	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d; want 2", page.TotalPages)
	}
	if page.Page != 2 || page.PerPage != 12 || page.Total != 13 {
		t.Errorf("metadata = %+v; want page 2, per_page 12, total 13", page)
	}
	if len(page.Items) != 1 {
		t.Errorf("len(Items) = %d; want 1", len(page.Items))
	}
}

func TestNewCarPage_NilItems(t *testing.T) {
	page := NewCarPage(nil, 0, domain.ListQuery{Page: 1, PerPage: 12}, domain.SortNone)

	if page.Items == nil {
		t.Fatal("Items should be an empty slice, not nil")
	}
	if len(page.Items) != 0 {
		t.Errorf("len(Items) = %d; want 0", len(page.Items))
	}
	if page.TotalPages != 0 {
		t.Errorf("TotalPages = %d; want 0", page.TotalPages)
	}
}
