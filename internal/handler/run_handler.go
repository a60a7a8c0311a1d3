package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/model"
	"github.com/Mouly-K/ffe/internal/service"
)

type RunHandler struct {
	svc *service.RunService
}

func NewRunHandler(svc *service.RunService) *RunHandler {
	return &RunHandler{svc: svc}
}

func (h *RunHandler) Create(c *gin.Context) {
	var req dto.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	run, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *RunHandler) List(c *gin.Context) {
	runs, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (h *RunHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateRunStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	run, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), model.RunStatus(req.Status))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}
