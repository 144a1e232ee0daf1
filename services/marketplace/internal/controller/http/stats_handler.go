package http

import (
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsUseCase usecase.StatsUseCase
	logger       *logger.Logger
}

func NewStatsHandler(statsUseCase usecase.StatsUseCase, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{statsUseCase: statsUseCase, logger: logger}
}

// GetStats godoc
// @Summary      Site counters
// @Tags         misc
// @Produce      json
// @Success      200  {object}  entity.Stats
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsUseCase.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLocations godoc
// @Summary      Location catalog
// @Description  country -> region -> city -> districts
// @Tags         misc
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /locations [get]
func (h *StatsHandler) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsUseCase.Locations())
}
