package domain

// DefaultCurrency is used whenever no page supplied a usable currency.
const DefaultCurrency = "INR"

// PageImage is one rasterized page staged on disk for the lifetime of a request.
type PageImage struct {
	Index    int    // zero-based position in the document
	Path     string // file inside the request workspace
	MIMEType string // image/jpeg, image/png or image/webp
}

// LineItem is a single invoice line as returned by the model.
type LineItem struct {
	Name          string   `json:"item_name"`
	Description   *string  `json:"item_description"`
	Quantity      *float64 `json:"item_quantity"`
	UnitPrice     *float64 `json:"item_price"`
	TaxPercentage *float64 `json:"item_tax_percentage"`
	Total         *float64 `json:"item_total"`
}

// RawExtraction is the possibly incomplete field set parsed from one page's
// model response. A nil pointer means the key was absent or null.
type RawExtraction struct {
	CustomerName    *string
	CustomerAddress *string
	CustomerPhone   *string
	CustomerEmail   *string
	CustomerGSTIN   *string

	InvoiceNumber *string
	InvoiceDate   *string

	TotalAmount    *float64
	TaxAmount      *float64
	DiscountAmount *float64
	Currency       *string

	LineItems []LineItem

	// FieldCount is the number of top-level keys the model returned.
	// Zero marks a page whose extraction failed.
	FieldCount int
}

// IsEmpty reports whether the extraction carries nothing from the model.
func (r *RawExtraction) IsEmpty() bool {
	return r.FieldCount == 0
}

// InvoiceRecord is the merged, normalized result returned to the caller.
type InvoiceRecord struct {
	CustomerName    *string `json:"customer_name"`
	CustomerAddress *string `json:"customer_address"`
	CustomerPhone   *string `json:"customer_phone"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerGSTIN   *string `json:"customer_gstin"`

	InvoiceNumber *string `json:"invoice_number"`
	InvoiceDate   *string `json:"invoice_date"`

	TotalAmount    *float64 `json:"total_amount"`
	TaxAmount      *float64 `json:"tax_amount"`
	DiscountAmount *float64 `json:"discount_amount"`
	Currency       string   `json:"currency"`

	LineItems []LineItem `json:"line_items"`

	ProcessingTimeSeconds *float64 `json:"processing_time_seconds"`
}

// HealthStatus describes the service's readiness to process invoices.
type HealthStatus struct {
	Status           string   `json:"status"`
	OCRMode          string   `json:"ocr_mode"`
	APIConnected     bool     `json:"api_connected"`
	Provider         string   `json:"provider"`
	PDFEnabled       bool     `json:"pdf_enabled"`
	SupportedFormats []string `json:"supported_formats"`
}
