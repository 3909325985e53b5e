package pipeline

import (
	"invoiceocr/internal/domain"
)

// Merge combines per-page extractions into one invoice record.
//
// With no results every field is null. A single result passes through
// unchanged. With several results the first non-empty value of each text
// field wins, amounts are summed starting from zero, the currency is the
// most frequent one (earliest wins a tie), and line items are concatenated
// in page order. The currency is never left empty.
func Merge(results []domain.RawExtraction) domain.InvoiceRecord {
	switch len(results) {
	case 0:
		return domain.InvoiceRecord{
			Currency:  domain.DefaultCurrency,
			LineItems: []domain.LineItem{},
		}
	case 1:
		return single(&results[0])
	}

	var rec domain.InvoiceRecord
	total, tax, discount := 0.0, 0.0, 0.0
	items := []domain.LineItem{}
	currencies := newCurrencyTally()

	for i := range results {
		r := &results[i]

		firstNonEmpty(&rec.CustomerName, r.CustomerName)
		firstNonEmpty(&rec.CustomerAddress, r.CustomerAddress)
		firstNonEmpty(&rec.CustomerPhone, r.CustomerPhone)
		firstNonEmpty(&rec.CustomerEmail, r.CustomerEmail)
		firstNonEmpty(&rec.CustomerGSTIN, r.CustomerGSTIN)
		firstNonEmpty(&rec.InvoiceNumber, r.InvoiceNumber)
		firstNonEmpty(&rec.InvoiceDate, r.InvoiceDate)

		total += valueOf(r.TotalAmount)
		tax += valueOf(r.TaxAmount)
		discount += valueOf(r.DiscountAmount)

		if r.Currency != nil {
			currencies.add(*r.Currency)
		}
		items = append(items, r.LineItems...)
	}

	rec.TotalAmount = &total
	rec.TaxAmount = &tax
	rec.DiscountAmount = &discount
	rec.Currency = currencies.winner()
	rec.LineItems = items
	return rec
}

func single(r *domain.RawExtraction) domain.InvoiceRecord {
	rec := domain.InvoiceRecord{
		CustomerName:    r.CustomerName,
		CustomerAddress: r.CustomerAddress,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		CustomerGSTIN:   r.CustomerGSTIN,
		InvoiceNumber:   r.InvoiceNumber,
		InvoiceDate:     r.InvoiceDate,
		TotalAmount:     r.TotalAmount,
		TaxAmount:       r.TaxAmount,
		DiscountAmount:  r.DiscountAmount,
		Currency:        domain.DefaultCurrency,
		LineItems:       append([]domain.LineItem{}, r.LineItems...),
	}
	if r.Currency != nil && *r.Currency != "" {
		rec.Currency = *r.Currency
	}
	return rec
}

func firstNonEmpty(dst **string, v *string) {
	if *dst == nil && v != nil && *v != "" {
		*dst = v
	}
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// currencyTally counts currency votes, remembering first-seen order.
type currencyTally struct {
	counts map[string]int
	order  []string
}

func newCurrencyTally() *currencyTally {
	return &currencyTally{counts: map[string]int{}}
}

func (t *currencyTally) add(c string) {
	if c == "" {
		return
	}
	if _, seen := t.counts[c]; !seen {
		t.order = append(t.order, c)
	}
	t.counts[c]++
}

func (t *currencyTally) winner() string {
	best, bestCount := domain.DefaultCurrency, 0
	for _, c := range t.order {
		if t.counts[c] > bestCount {
			best, bestCount = c, t.counts[c]
		}
	}
	return best
}
