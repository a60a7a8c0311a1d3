package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/service"
)

type ShipperHandler struct {
	svc *service.ShipperService
}

func NewShipperHandler(svc *service.ShipperService) *ShipperHandler {
	return &ShipperHandler{svc: svc}
}

func (h *ShipperHandler) Create(c *gin.Context) {
	var req dto.CreateShipperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	shipper, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, shipper)
}

func (h *ShipperHandler) Get(c *gin.Context) {
	shipper, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, shipper)
}

func (h *ShipperHandler) List(c *gin.Context) {
	shippers, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shippers": shippers, "count": len(shippers)})
}

// AddRoute appends a route to a shipper's rate card. Fee model validation
// happens in the service; the handler only checks request shape.
func (h *ShipperHandler) AddRoute(c *gin.Context) {
	var req dto.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	route, err := h.svc.AddRoute(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (h *ShipperHandler) GetRoute(c *gin.Context) {
	route, err := h.svc.GetRoute(c.Request.Context(), c.Param("routeId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *ShipperHandler) DeleteRoute(c *gin.Context) {
	if err := h.svc.DeleteRoute(c.Request.Context(), c.Param("routeId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
