package handlers

import (
	"net/http"

	"md-shaving/internal/api/models"
	"md-shaving/internal/data"

	"github.com/gin-gonic/gin"
)

// BatteryHandler serves the vendor battery database.
type BatteryHandler struct {
	db data.BatteryDatabase
}

func NewBatteryHandler(db data.BatteryDatabase) *BatteryHandler {
	return &BatteryHandler{db: db}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := make([]models.BatteryInfo, 0, len(h.db))
	for _, id := range h.db.IDs() {
		m := h.db[id]
		batteries = append(batteries, models.BatteryInfo{
			ID:             id,
			Company:        m.Company,
			Model:          m.Model,
			EnergyKWh:      m.EnergyKWh,
			PowerKW:        m.PowerKW,
			CRate:          m.CRate,
			LifespanYears:  m.LifespanYears,
			EOLCapacityPct: m.EOLCapacityPct,
		})
	}
	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}
