package catalog

import "github.com/gin-gonic/gin"

// CatalogModule implements the app.Module interface for the catalog domain.
type CatalogModule struct {
	handler     *CarsHandler
	pageHandler *CatalogPageHandler
}

// NewModule creates a new CatalogModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *CarsHandler, ph *CatalogPageHandler) *CatalogModule {
	if h == nil {
		panic("catalog.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("catalog.NewModule: pageHandler must not be nil")
	}
	return &CatalogModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers catalog API and page routes.
func (m *CatalogModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// Proxy endpoint — the only API surface.
	api.GET("/cars", m.handler.List)

	// The catalog list page is the site root.
	pages.GET("/", m.pageHandler.ListPage)
}
