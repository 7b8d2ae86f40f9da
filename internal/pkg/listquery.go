package pkg

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plexcars/catalog/internal/domain"
)

const defaultPage = 1

// Query parameter names understood by the catalog pages.
const (
	ParamSearch = "q"
	ParamSort   = "sort"
	ParamPageUI = "page"
)

// ParseListQuery extracts the catalog list query from page query params:
// "q" (search text), "page" (1-based, default 1). The page size is fixed
// by configuration, never by the client.
func ParseListQuery(c *gin.Context, perPage int) domain.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery(ParamPageUI, strconv.Itoa(defaultPage)))
	return domain.ListQuery{
		Page:    page,
		PerPage: perPage,
		Search:  c.Query(ParamSearch),
	}.Normalize(perPage)
}

// PageCount returns ceil(total/perPage): the number of pagination links to
// render. Zero items means zero pages.
func PageCount(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// NewCarPage assembles a CarPage from fetched items, the full result-set
// count, and the query that produced them.
func NewCarPage(items []domain.Car, total int64, q domain.ListQuery, order domain.SortOrder) *domain.CarPage {
	if items == nil {
		items = []domain.Car{}
	}
	return &domain.CarPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: PageCount(total, q.PerPage),
		Sort:       order,
	}
}
