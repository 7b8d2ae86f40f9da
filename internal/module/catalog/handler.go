package catalog

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plexcars/catalog/internal/domain"
	"github.com/plexcars/catalog/internal/pkg"
)

// proxyErrorBody is the fixed failure response of the proxy endpoint.
// Gateway details are never leaked to clients.
var proxyErrorBody = gin.H{"error": "Internal Server Error"}

// CarsHandler implements the proxy endpoint: it forwards listing
// queries to the remote gateway and relays the response verbatim, so
// browsers never talk to the gateway origin directly.
type CarsHandler struct {
	gw           domain.ListingGateway
	defaultLimit int
}

// NewCarsHandler creates a CarsHandler with the given gateway and
// default page size.
func NewCarsHandler(gw domain.ListingGateway, defaultLimit int) *CarsHandler {
	if gw == nil {
		panic("catalog.NewCarsHandler: gateway must not be nil")
	}
	return &CarsHandler{gw: gw, defaultLimit: defaultLimit}
}

// listCarsRequest carries the proxy endpoint's query parameters. The
// underscore-prefixed names mirror the gateway's own parameters so they
// pass through verbatim.
type listCarsRequest struct {
	Limit  int    `form:"_limit" json:"_limit" binding:"omitempty,min=1"`
	Page   int    `form:"_page" json:"_page" binding:"omitempty,min=1"`
	Search string `form:"q" json:"q" binding:"omitempty,max=200"`
}

// List handles GET /api/cars.
//
// Query parameters: _limit (default 12), _page (default 1), q
// (optional). They are forwarded to the gateway unchanged; the
// gateway's JSON body is relayed byte-for-byte on success. Malformed
// parameters get a 400 validation response before any gateway call.
// Any gateway failure — transport error or non-2xx upstream status —
// collapses to 500 {"error": "Internal Server Error"}. Stateless; no
// retries.
func (h *CarsHandler) List(c *gin.Context) {
	var req listCarsRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	q := domain.ListQuery{
		Page:    req.Page,
		PerPage: req.Limit,
		Search:  req.Search,
	}.Normalize(h.defaultLimit)

	listing, err := h.gw.List(c.Request.Context(), q)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "proxy fetch failed",
			slog.Int("page", q.Page),
			slog.String("q", q.Search),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, proxyErrorBody)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", listing.Raw)
}
