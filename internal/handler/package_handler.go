package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/service"
)

type PackageHandler struct {
	svc      *service.PackageService
	quoteSvc *service.QuoteService
}

func NewPackageHandler(svc *service.PackageService, quoteSvc *service.QuoteService) *PackageHandler {
	return &PackageHandler{svc: svc, quoteSvc: quoteSvc}
}

func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	pkg, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) ListByRun(c *gin.Context) {
	packages, err := h.svc.ListByRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages, "count": len(packages)})
}

// Quote prices a stored package on demand: per-leg costs, the package total
// and the proportional allocation to every packed item.
func (h *PackageHandler) Quote(c *gin.Context) {
	quote, err := h.quoteSvc.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

// RefreshRates re-resolves every conversion stamp on the package as of now.
func (h *PackageHandler) RefreshRates(c *gin.Context) {
	pkg, err := h.svc.RefreshRates(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) UpdateTracking(c *gin.Context) {
	var req dto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	if err := h.svc.UpdateTracking(c.Request.Context(), c.Param("routeId"), &req); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func newQuoteResponse(q *service.QuoteResult) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		PackageID:     q.PackageID,
		PackageName:   q.PackageName,
		GeneratedAt:   q.GeneratedAt,
		Routes:        make([]dto.RouteQuoteResponse, len(q.Routes)),
		ShippingPrice: dto.NewLocalPriceResponse(q.ShippingPrice),
		Items:         make([]dto.ItemQuoteResponse, len(q.Items)),
	}
	for i, r := range q.Routes {
		resp.Routes[i] = dto.RouteQuoteResponse{
			RouteID: r.RouteID,
			Name:    r.Name,
			Price:   dto.NewPriceResponse(r.Price),
		}
	}
	for i, item := range q.Items {
		routes := make([]dto.ItemRouteResponse, len(item.Routes))
		for j, ir := range item.Routes {
			routes[j] = dto.ItemRouteResponse{
				RouteID: ir.RouteID,
				Price:   dto.NewPriceResponse(ir.Price),
			}
		}
		resp.Items[i] = dto.ItemQuoteResponse{
			ItemID:        item.ItemID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			Routes:        routes,
			ShippingPrice: dto.NewLocalPriceResponse(item.ShippingPrice),
			TotalPrice:    dto.NewLocalPriceResponse(item.TotalPrice),
		}
	}
	return resp
}
