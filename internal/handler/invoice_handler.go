package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/service"
)

// InvoiceHandler handles invoice extraction endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Process handles POST /api/v1/process-invoice
// @Summary Extract invoice data
// @Description Upload one PDF (every page is processed) or one or more images of the same invoice.
// @Description Pages are sent to the configured vision model and the results merged into one record.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF or image files (jpg, jpeg, png, bmp, tiff, webp)"
// @Success 200 {object} domain.InvoiceRecord "Extracted invoice"
// @Failure 400 {object} ErrorResponseBody "No files, unsupported type or mixed upload"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "No page could be extracted"
// @Failure 503 {object} ErrorResponseBody "Provider or PDF support unavailable"
// @Router /api/v1/process-invoice [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "expected multipart/form-data with one or more files fields")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		HandleError(c, domain.ErrNoFiles)
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			HandleError(c, err)
			return
		}
		opened = append(opened, f)
		files = append(files, service.UploadFile{Filename: hdr.Filename, Size: hdr.Size, Content: f})
	}

	record, err := h.invoiceService.Process(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
