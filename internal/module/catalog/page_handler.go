package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plexcars/catalog/internal/domain"
	"github.com/plexcars/catalog/internal/middleware"
	"github.com/plexcars/catalog/internal/pkg"
)

// CatalogPageHandler renders the product list page and its htmx
// fragments. The page is a pure function of its query parameters
// (q, page, sort), so every list state has a shareable URL.
type CatalogPageHandler struct {
	svc        domain.CatalogService
	creditRate float64
	creditTerm int
}

// NewCatalogPageHandler creates a CatalogPageHandler with the given
// service. Non-positive credit parameters fall back to the display
// defaults.
func NewCatalogPageHandler(svc domain.CatalogService, creditRate float64, creditTermMonths int) *CatalogPageHandler {
	if svc == nil {
		panic("catalog.NewCatalogPageHandler: service must not be nil")
	}
	if creditRate <= 0 {
		creditRate = DefaultCreditRate
	}
	if creditTermMonths <= 0 {
		creditTermMonths = DefaultCreditTerm
	}
	return &CatalogPageHandler{svc: svc, creditRate: creditRate, creditTerm: creditTermMonths}
}

// ListPage renders the catalog list page.
// GET /?q=<search>&page=<n>&sort=<asc|desc|none>
//
// htmx requests (search input debounce, pagination clicks, sort menu)
// carry the HX-Request header and receive only the results fragment;
// full page loads receive the complete document. Fetch failures render
// the same page with an error banner — the state stays recoverable by
// further interaction, never a dead error page.
func (h *CatalogPageHandler) ListPage(c *gin.Context) {
	q := pkg.ParseListQuery(c, h.svc.PerPage())
	order := domain.ParseSortOrder(c.Query(pkg.ParamSort))

	data := gin.H{
		"Search":     q.Search,
		"Sort":       string(order),
		"CSRFToken":  middleware.GetCSRFToken(c),
		"CreditRate": h.creditRate,
		"CreditTerm": h.creditTerm,
	}

	page, err := h.svc.ListCars(c.Request.Context(), q, order)
	if err != nil {
		data["Error"] = "Что-то пошло не так. Попробуйте ещё раз."
		data["Page"] = pkg.NewCarPage(nil, 0, q, order)
		h.render(c, data)
		return
	}

	data["Page"] = page
	h.render(c, data)
}

// render picks the full page or the htmx results fragment.
func (h *CatalogPageHandler) render(c *gin.Context, data gin.H) {
	if c.GetHeader("HX-Request") != "" {
		c.HTML(http.StatusOK, "catalog/results.html", data)
		return
	}
	c.HTML(http.StatusOK, "catalog/list.html", data)
}
