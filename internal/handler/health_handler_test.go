package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/handler"
	"invoiceocr/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewHealthHandler(mockSvc)
	mockSvc.On("Health").Return(domain.HealthStatus{
		Status:           "healthy",
		OCRMode:          "groq",
		APIConnected:     false,
		Provider:         "Groq",
		PDFEnabled:       false,
		SupportedFormats: domain.SupportedFormats(false),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "groq", resp["ocr_mode"])
	assert.Equal(t, false, resp["api_connected"])
	assert.Equal(t, "Groq", resp["provider"])
	assert.Equal(t, false, resp["pdf_enabled"])
	assert.Len(t, resp["supported_formats"], 6)
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(new(mocks.MockInvoiceService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", nil)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
