package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mouly-K/ffe/internal/dto"
	"github.com/Mouly-K/ffe/internal/fx"
	"github.com/Mouly-K/ffe/internal/service"
)

type RateHandler struct {
	svc *service.RateService
}

func NewRateHandler(svc *service.RateService) *RateHandler {
	return &RateHandler{svc: svc}
}

// Resolve answers GET /rates?from=usd&to=inr&date=2024-03-01. The date is
// optional and defaults to today.
func (h *RateHandler) Resolve(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "query parameters 'from' and 'to' are required",
		})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(fx.DayFormat, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
				Error: "invalid date, expected YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	res, err := h.svc.Resolve(c.Request.Context(), from, to, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RateResponse{
		From:           from,
		To:             to,
		Date:           date.Format(fx.DayFormat),
		Status:         res.Status,
		ConversionRate: res.Rate,
	})
}
