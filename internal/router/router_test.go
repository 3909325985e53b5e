package router_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/handler"
	"invoiceocr/internal/router"
	"invoiceocr/mocks"
)

func newEngine(svc *mocks.MockInvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	return router.Setup(cfg, handler.NewInvoiceHandler(svc), handler.NewHealthHandler(svc))
}

func TestRouter_Health(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("Health").Return(domain.HealthStatus{Status: "healthy", OCRMode: "gemini", SupportedFormats: domain.SupportedFormats(true)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", http.NoBody)
	newEngine(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ocr_mode":"gemini"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_ProcessInvoice(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("Process", mock.Anything, mock.Anything).
		Return(&domain.InvoiceRecord{Currency: "INR", LineItems: []domain.LineItem{}}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "scan.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/process-invoice", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	newEngine(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"currency":"INR"`)
	svc.AssertExpectations(t)
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices", http.NoBody)
	newEngine(new(mocks.MockInvoiceService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
