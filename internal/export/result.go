package export

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoiceocr/internal/domain"
)

// Result is the outcome of processing one source (a file or a group of
// images sent together).
type Result struct {
	Source string
	Record *domain.InvoiceRecord
	Err    string
}

// columns defines the summary header row shared by the CSV and XLSX writers.
var columns = []string{
	"Source",
	"Customer Name",
	"Customer Address",
	"Customer Phone",
	"Customer Email",
	"Customer GSTIN",
	"Invoice Number",
	"Invoice Date",
	"Total Amount",
	"Tax Amount",
	"Discount Amount",
	"Currency",
	"Line Item Count",
	"Processing Time (s)",
	"Error",
}

// lineItemColumns defines the header row of the line item sheet.
var lineItemColumns = []string{
	"Source",
	"Item Name",
	"Description",
	"Quantity",
	"Price",
	"Tax %",
	"Total",
}

// resultToRow converts a result to a summary row. Failed results only carry
// the source and the error.
func resultToRow(r *Result) []string {
	row := make([]string, len(columns))
	row[0] = r.Source
	row[14] = r.Err
	if r.Record == nil {
		return row
	}

	rec := r.Record
	row[1] = deref(rec.CustomerName)
	row[2] = deref(rec.CustomerAddress)
	row[3] = deref(rec.CustomerPhone)
	row[4] = deref(rec.CustomerEmail)
	row[5] = deref(rec.CustomerGSTIN)
	row[6] = deref(rec.InvoiceNumber)
	row[7] = deref(rec.InvoiceDate)
	row[8] = formatMoney(rec.TotalAmount)
	row[9] = formatMoney(rec.TaxAmount)
	row[10] = formatMoney(rec.DiscountAmount)
	row[11] = rec.Currency
	row[12] = strconv.Itoa(len(rec.LineItems))
	row[13] = formatMoney(rec.ProcessingTimeSeconds)
	return row
}

func lineItemToRow(source string, item *domain.LineItem) []string {
	return []string{
		source,
		item.Name,
		deref(item.Description),
		formatNumber(item.Quantity),
		formatMoney(item.UnitPrice),
		formatNumber(item.TaxPercentage),
		formatMoney(item.Total),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [A-Za-z0-9_-] with '_',
// collapses runs of underscores and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "invoices"
	}
	return s
}

// BuildFilename returns {sanitized_base}_{YYYY-MM-DD}.{ext}.
func BuildFilename(base, ext string, now time.Time) string {
	return SanitizeFilename(base) + "_" + now.Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}
