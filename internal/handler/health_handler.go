package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoiceocr/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	invoiceService service.InvoiceService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(invoiceService service.InvoiceService) *HealthHandler {
	return &HealthHandler{invoiceService: invoiceService}
}

// Health handles GET /health
// @Summary Service health
// @Description Reports the OCR mode, provider connectivity, PDF support and accepted formats
// @Tags health
// @Produce json
// @Success 200 {object} domain.HealthStatus
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.invoiceService.Health())
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} LivenessResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
