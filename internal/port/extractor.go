package port

import (
	"context"

	"invoiceocr/internal/domain"
)

// Extractor sends one page image to a vision model and returns the model's
// reply verbatim.
type Extractor interface {
	Extract(ctx context.Context, page domain.PageImage) (string, error)
	// Name identifies the provider in logs and health output.
	Name() string
}
