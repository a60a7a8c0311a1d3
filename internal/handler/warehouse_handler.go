package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/service"
)

type WarehouseHandler struct {
	svc *service.WarehouseService
}

func NewWarehouseHandler(svc *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	warehouse, err := h.svc.Create(c.Request.Context(), req.Name, req.CountryName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

func (h *WarehouseHandler) Get(c *gin.Context) {
	warehouse, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandler) List(c *gin.Context) {
	warehouses, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": warehouses, "count": len(warehouses)})
}

func (h *WarehouseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
