package domain

import "errors"

var (
	ErrNoFiles              = errors.New("no files uploaded")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrMixedUpload          = errors.New("multiple files must all be images")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles         = errors.New("too many files in one request")
	ErrInvalidMode          = errors.New("invalid OCR mode")
	ErrProviderUnavailable  = errors.New("OCR provider not available")
	ErrPDFUnsupported       = errors.New("PDF support not available")
	ErrPDFConversion        = errors.New("failed to convert PDF")
	ErrNoExtractableContent = errors.New("failed to extract data from any page")
)
