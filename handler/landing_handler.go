package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dlfdnd96/kidari-teacher-sub001/landing"
)

type LandingHandler struct {
	source *landing.Source
}

func NewLandingHandler(src *landing.Source) *LandingHandler {
	return &LandingHandler{source: src}
}

// ActivityData handles GET /api/activity-data.
func (h *LandingHandler) ActivityData() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()
		body, err := h.source.Fetch(ctx)
		switch {
		case errors.Is(err, landing.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"code": "SERVICE_UNAVAILABLE", "message": "활동 데이터가 설정되지 않았습니다."}})
			return
		case err != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"code": "BAD_GATEWAY", "message": "활동 데이터를 불러오지 못했습니다."}})
			return
		}
		c.Header("Cache-Control", landing.CacheControl)
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
