package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/httpresp"
	"github.com/BruksfildServices01/smart-spa/internal/usecase/catalog"
)

type OfferLister interface {
	Execute(ctx context.Context, f catalog.Filter) ([]catalog.Offer, error)
}

type CatalogHandler struct {
	offers OfferLister
}

func NewCatalogHandler(offers OfferLister) *CatalogHandler {
	return &CatalogHandler{offers: offers}
}

// GET /api/catalog?city=&query=
func (h *CatalogHandler) List(c *gin.Context) {
	offers, err := h.offers.Execute(c.Request.Context(), catalog.Filter{
		City:   c.Query("city"),
		Search: c.Query("query"),
	})
	if err != nil {
		httperr.Internal(c, "catalog_failed", "Failed to load the catalog.")
		return
	}

	httpresp.List(c, offers)
}
