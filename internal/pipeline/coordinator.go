package pipeline

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"invoiceocr/internal/domain"
	"invoiceocr/internal/parser"
	"invoiceocr/internal/port"
)

// Coordinator fans page extraction out to the provider and gathers the
// parsed results.
type Coordinator struct {
	maxConcurrent int
	verbose       bool
}

// NewCoordinator creates a Coordinator. maxConcurrent <= 0 starts one
// goroutine per page with no limit.
func NewCoordinator(maxConcurrent int, verbose bool) *Coordinator {
	return &Coordinator{maxConcurrent: maxConcurrent, verbose: verbose}
}

// Run extracts every page concurrently and waits for all of them. A page
// that fails never cancels the others. The returned slice holds the
// non-empty extractions in page order; failed pages leave no entry.
func (c *Coordinator) Run(ctx context.Context, extractor port.Extractor, pages []domain.PageImage) []domain.RawExtraction {
	slots := make([]domain.RawExtraction, len(pages))

	var g errgroup.Group
	if c.maxConcurrent > 0 {
		g.SetLimit(c.maxConcurrent)
	}
	for i, page := range pages {
		g.Go(func() error {
			slots[i] = c.extractPage(ctx, extractor, page)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]domain.RawExtraction, 0, len(slots))
	for i := range slots {
		if slots[i].IsEmpty() {
			continue
		}
		results = append(results, slots[i])
	}
	log.Printf("pipeline.Coordinator: %d of %d page(s) extracted via %s", len(results), len(pages), extractor.Name())
	return results
}

func (c *Coordinator) extractPage(ctx context.Context, extractor port.Extractor, page domain.PageImage) (ext domain.RawExtraction) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline.Coordinator: page %d: recovered from panic: %v", page.Index+1, r)
			ext = domain.RawExtraction{}
		}
	}()

	text, err := extractor.Extract(ctx, page)
	if err != nil {
		log.Printf("pipeline.Coordinator: page %d: %s extraction failed: %v", page.Index+1, extractor.Name(), err)
		return domain.RawExtraction{}
	}
	if c.verbose {
		log.Printf("pipeline.Coordinator: page %d: raw response (%d chars): %s", page.Index+1, len(text), text)
	}

	ext = parser.Parse(text)
	if ext.IsEmpty() {
		log.Printf("pipeline.Coordinator: page %d: no fields extracted", page.Index+1)
	}
	return ext
}
