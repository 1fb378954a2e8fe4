package handlers

import (
	"net/http"
	"strconv"

	"md-shaving/internal/api/models"
	"md-shaving/internal/model"
	"md-shaving/internal/sizing"

	"github.com/gin-gonic/gin"
)

// CurveHandler exposes the degradation reference data for charting.
type CurveHandler struct {
	curve *model.DegradationCurve
}

func NewCurveHandler(curve *model.DegradationCurve) *CurveHandler {
	return &CurveHandler{curve: curve}
}

// GetCurve handles GET /api/v1/curve
// With ?yearly=true it also returns interpolated whole-year samples over
// the horizon, which is what the dashboard plots.
func (h *CurveHandler) GetCurve(c *gin.Context) {
	resp := models.CurveResponse{
		EndOfLifeSOH: model.EndOfLifeSOH,
	}
	for _, p := range h.curve.Points() {
		resp.Points = append(resp.Points, models.CurvePoint{AgeYears: p.AgeYears, SOH: p.SOH})
	}

	horizon := sizing.DefaultHorizonYears
	if raw := c.Query("horizon_years"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			horizon = v
		}
	}
	if y, ok := h.curve.EndOfLifeYear(horizon); ok {
		resp.EndOfLifeYear = &y
	}

	if c.Query("yearly") == "true" {
		for y := 0; y <= horizon; y++ {
			resp.Yearly = append(resp.Yearly, models.CurvePoint{
				AgeYears: float64(y),
				SOH:      h.curve.SOHAt(float64(y)),
			})
		}
	}

	c.JSON(http.StatusOK, resp)
}
