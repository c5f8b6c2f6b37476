package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/planbyte/event-planner-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// DownloadGuestList handles GET /events/:id/reports/guest-list?format=csv|excel|pdf
func (h *Handler) DownloadGuestList(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	format := c.DefaultQuery("format", FormatCSV)
	switch format {
	case FormatCSV, FormatExcel, FormatPDF:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use csv, excel or pdf"})
		return
	}

	ip := middleware.GetIPFromContext(c)
	data, filename, contentType, err := h.Service.ExportGuestList(c.Request.Context(), ident, uint(eventID), format, ip)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
