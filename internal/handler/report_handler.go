package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetReport renders a package's cost breakdown. HTML when requested via
// ?format=html or an Accept header, JSON otherwise.
func (h *ReportHandler) GetReport(c *gin.Context) {
	data, err := h.svc.GenerateReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	wantsHTML := c.Query("format") == "html" || strings.Contains(c.GetHeader("Accept"), "text/html")

	if wantsHTML {
		html, err := h.svc.RenderHTML(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render HTML: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.JSON(http.StatusOK, data)
}
