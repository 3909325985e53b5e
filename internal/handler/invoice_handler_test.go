package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/handler"
	"invoiceocr/internal/service"
	"invoiceocr/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newProcessContext(body io.Reader, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/process-invoice", body)
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	return c, w
}

func TestInvoiceHandler_Process_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	name := "Acme"
	elapsed := 1.25
	record := &domain.InvoiceRecord{
		CustomerName:          &name,
		Currency:              "INR",
		LineItems:             []domain.LineItem{},
		ProcessingTimeSeconds: &elapsed,
	}
	var received []byte
	mockSvc.On("Process", mock.Anything, mock.MatchedBy(func(files []service.UploadFile) bool {
		return len(files) == 1 && files[0].Filename == "invoice.pdf"
	})).Run(func(args mock.Arguments) {
		files := args.Get(1).([]service.UploadFile)
		received, _ = io.ReadAll(files[0].Content)
	}).Return(record, nil)

	body, ct := multipartBody(t, "files", map[string]string{"invoice.pdf": "%PDF-1.4 test"})
	c, w := newProcessContext(body, ct)

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp["customer_name"])
	assert.Equal(t, "INR", resp["currency"])
	assert.Nil(t, resp["total_amount"])
	assert.Contains(t, resp, "total_amount")
	assert.Equal(t, []interface{}{}, resp["line_items"])
	assert.Equal(t, 1.25, resp["processing_time_seconds"])
	assert.NotContains(t, resp, "success")
	assert.Equal(t, "%PDF-1.4 test", string(received))
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Process_MultipleFiles(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)
	mockSvc.On("Process", mock.Anything, mock.MatchedBy(func(files []service.UploadFile) bool {
		return len(files) == 2
	})).Return(&domain.InvoiceRecord{Currency: "INR", LineItems: []domain.LineItem{}}, nil)

	body, ct := multipartBody(t, "files", map[string]string{"p1.jpg": "a", "p2.png": "b"})
	c, w := newProcessContext(body, ct)

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Process_NoFiles(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	body, ct := multipartBody(t, "document", map[string]string{"invoice.pdf": "x"})
	c, w := newProcessContext(body, ct)

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NO_FILES", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Process_NotMultipart(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	c, w := newProcessContext(bytes.NewBufferString(`{"files": []}`), "application/json")

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Process_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: notes.txt", domain.ErrUnsupportedFileType), http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{fmt.Errorf("%w. Found: a.pdf", domain.ErrMixedUpload), http.StatusBadRequest, "MIXED_UPLOAD"},
		{domain.ErrTooManyFiles, http.StatusBadRequest, "TOO_MANY_FILES"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{fmt.Errorf("%w: Groq: GROQ_API_KEY not set", domain.ErrProviderUnavailable), http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"},
		{domain.ErrInvalidMode, http.StatusServiceUnavailable, "INVALID_OCR_MODE"},
		{domain.ErrPDFUnsupported, http.StatusServiceUnavailable, "PDF_UNSUPPORTED"},
		{domain.ErrPDFConversion, http.StatusInternalServerError, "PDF_CONVERSION_FAILED"},
		{domain.ErrNoExtractableContent, http.StatusInternalServerError, "EXTRACTION_FAILED"},
		{errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mockSvc := new(mocks.MockInvoiceService)
			h := handler.NewInvoiceHandler(mockSvc)
			mockSvc.On("Process", mock.Anything, mock.Anything).Return(nil, tt.err)

			body, ct := multipartBody(t, "files", map[string]string{"a.jpg": "x"})
			c, w := newProcessContext(body, ct)

			h.Process(c)

			assert.Equal(t, tt.status, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestMapDomainError_MessagesNameTheFile(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("%w. Found: scan.pdf", domain.ErrMixedUpload))
	assert.Contains(t, msg, "scan.pdf")

	_, _, msg = handler.MapDomainError(fmt.Errorf("wrapped: %w", errors.New("secret internals")))
	assert.NotContains(t, msg, "secret")
}
