package handler

import (
	"net/http"

	"github.com/Truthtechno/LockerRoom-sub000/internal/ratelimit"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	limiter *ratelimit.Limiter
}

func NewAdminHandler(limiter *ratelimit.Limiter) *AdminHandler {
	return &AdminHandler{limiter: limiter}
}

type resetRateLimitInput struct {
	Address string `json:"address" binding:"required"`
	Path    string `json:"path"`
}

// ResetRateLimit clears the shared counters for a client address. An empty
// path clears every route's counter for that address.
func (h *AdminHandler) ResetRateLimit(c *gin.Context) {
	var input resetRateLimitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "address is required")
		return
	}

	if err := h.limiter.Reset(c.Request.Context(), input.Address, input.Path); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rate limit reset"})
}
