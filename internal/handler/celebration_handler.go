package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/service"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// CelebrationHandler lists member birthdays and enrollment anniversaries.
type CelebrationHandler struct {
	celebrations *service.CelebrationService
}

// NewCelebrationHandler constructs CelebrationHandler.
func NewCelebrationHandler(celebrations *service.CelebrationService) *CelebrationHandler {
	return &CelebrationHandler{celebrations: celebrations}
}

// Month godoc
// @Summary Celebrations for a month
// @Tags Celebrations
// @Produce json
// @Param month query int false "Month (default current)"
// @Param year query int false "Year (default current)"
// @Success 200 {object} response.Envelope
// @Router /celebrations [get]
func (h *CelebrationHandler) Month(c *gin.Context) {
	month, year, err := competenceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	celebrations, err := h.celebrations.Month(c.Request.Context(), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, celebrations, nil)
}
