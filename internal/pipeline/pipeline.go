package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/port"
)

// Options configures a Pipeline.
type Options struct {
	MaxConcurrentPages int
	Verbose            bool
}

// Pipeline runs extraction, merge and normalization for one document.
type Pipeline struct {
	coordinator *Coordinator
	normalizer  *Normalizer
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		coordinator: NewCoordinator(opts.MaxConcurrentPages, opts.Verbose),
		normalizer:  NewNormalizer(),
	}
}

// Process extracts all pages with extractor and returns the merged record.
// It fails with domain.ErrNoExtractableContent only when no page produced
// any fields.
func (p *Pipeline) Process(ctx context.Context, extractor port.Extractor, pages []domain.PageImage, start time.Time) (*domain.InvoiceRecord, error) {
	results := p.coordinator.Run(ctx, extractor, pages)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: 0 of %d page(s) returned data", domain.ErrNoExtractableContent, len(pages))
	}

	record := p.normalizer.Normalize(Merge(results), results, start)
	log.Printf("pipeline.Process: merged %d page result(s), %d line item(s), currency %s",
		len(results), len(record.LineItems), record.Currency)
	return &record, nil
}
