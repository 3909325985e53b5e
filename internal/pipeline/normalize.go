package pipeline

import (
	"time"

	"invoiceocr/internal/domain"
)

// Normalizer applies the final fix-ups to a merged record.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize guarantees a currency, restores null amounts that a single page
// never reported, and stamps the processing time when start is set.
func (n *Normalizer) Normalize(merged domain.InvoiceRecord, results []domain.RawExtraction, start time.Time) domain.InvoiceRecord {
	rec := merged
	if rec.Currency == "" {
		rec.Currency = domain.DefaultCurrency
	}
	if rec.LineItems == nil {
		rec.LineItems = []domain.LineItem{}
	}

	if len(results) == 1 {
		page := &results[0]
		rec.TotalAmount = nullIfUnreported(rec.TotalAmount, page.TotalAmount)
		rec.TaxAmount = nullIfUnreported(rec.TaxAmount, page.TaxAmount)
		rec.DiscountAmount = nullIfUnreported(rec.DiscountAmount, page.DiscountAmount)
	}

	if !start.IsZero() {
		elapsed := n.now().Sub(start).Round(10 * time.Millisecond).Seconds()
		rec.ProcessingTimeSeconds = &elapsed
	}
	return rec
}

func nullIfUnreported(merged, page *float64) *float64 {
	if merged != nil && *merged == 0 && page == nil {
		return nil
	}
	return merged
}
