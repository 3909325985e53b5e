package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoiceocr/internal/domain"
)

// APIResponse is the standard envelope for error responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Client errors carry the wrapped error text so the caller sees which file was
// rejected.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", "No files uploaded"
	case errors.Is(err, domain.ErrMixedUpload):
		return http.StatusBadRequest, "MIXED_UPLOAD", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", err.Error()
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", err.Error()
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error()
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusServiceUnavailable, "INVALID_OCR_MODE", err.Error()
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", err.Error()
	case errors.Is(err, domain.ErrPDFUnsupported):
		return http.StatusServiceUnavailable, "PDF_UNSUPPORTED", err.Error()
	case errors.Is(err, domain.ErrPDFConversion):
		return http.StatusInternalServerError, "PDF_CONVERSION_FAILED", err.Error()
	case errors.Is(err, domain.ErrNoExtractableContent):
		return http.StatusInternalServerError, "EXTRACTION_FAILED",
			"Failed to extract data from any images. Check server logs for details."
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	requestID, _ := c.Get("request_id")
	if status >= 500 {
		log.Printf("[%s] internal error: %v", requestID, err)
	} else {
		log.Printf("[%s] request rejected: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
