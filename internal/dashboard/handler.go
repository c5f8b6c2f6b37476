package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planbyte/event-planner-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📊 Dashboard Summary - GET /dashboard
func (h *Handler) GetSummary(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	summary, err := h.Service.GetSummary(ident)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
