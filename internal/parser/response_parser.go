package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"invoiceocr/internal/domain"
)

// DecodeError describes why a model response could not be decoded.
type DecodeError struct {
	Offset int64  // byte offset into the payload, -1 when unknown
	Near   string // payload bytes around Offset
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("decoding model output: %v", e.Err)
	}
	return fmt.Sprintf("decoding model output at offset %d near %q: %v", e.Offset, e.Near, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Parse turns a model response into a RawExtraction. It never fails: any
// problem is logged and yields the empty extraction, which callers treat as a
// failed page.
func Parse(raw string) (out domain.RawExtraction) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("parser.Parse: recovered from panic: %v", r)
			out = domain.RawExtraction{}
		}
	}()

	ext, err := Decode(raw)
	if err != nil {
		log.Printf("parser.Parse: %v", err)
		log.Printf("parser.Parse: full response (%d chars): %s", len(raw), raw)
		return domain.RawExtraction{}
	}
	return ext
}

// Decode is Parse without the recovery: it returns the decoding error.
func Decode(raw string) (domain.RawExtraction, error) {
	body := payload(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return domain.RawExtraction{}, newDecodeError(body, err)
	}

	ext := domain.RawExtraction{FieldCount: len(fields)}

	ext.CustomerName = stringField(fields, "customer_name")
	ext.CustomerAddress = stringField(fields, "customer_address")
	ext.CustomerPhone = stringField(fields, "customer_phone")
	ext.CustomerEmail = stringField(fields, "customer_email")
	ext.CustomerGSTIN = stringField(fields, "customer_gstin")
	ext.InvoiceNumber = stringField(fields, "invoice_number")
	ext.InvoiceDate = stringField(fields, "invoice_date")

	ext.TotalAmount = numberField(fields, "total_amount")
	ext.TaxAmount = numberField(fields, "tax_amount")
	ext.DiscountAmount = numberField(fields, "discount_amount")

	// Currency must be textual; a numeric currency is meaningless.
	if raw, ok := fields["currency"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			ext.Currency = &s
		} else if !isNull(raw) {
			log.Printf("parser.Decode: dropping non-string currency %s", raw)
		}
	}

	ext.LineItems = lineItems(fields["line_items"])

	return ext, nil
}

func newDecodeError(body string, err error) *DecodeError {
	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}

	near := ""
	if offset >= 0 && offset <= int64(len(body)) {
		lo := int(offset) - 5
		if lo < 0 {
			lo = 0
		}
		hi := int(offset) + 5
		if hi > len(body) {
			hi = len(body)
		}
		near = body[lo:hi]
	}
	return &DecodeError{Offset: offset, Near: near, Err: err}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringField reads a textual field. Numbers are kept in their literal form
// (models sometimes emit invoice numbers unquoted); other shapes are dropped.
func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		text := n.String()
		return &text
	}
	log.Printf("parser.Decode: dropping %s with unexpected value %s", key, raw)
	return nil
}

func numberField(fields map[string]json.RawMessage, key string) *float64 {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	return number(key, raw)
}

// number reads a numeric value, accepting numeric strings such as "1,234.50"
// or "₹ 99". Anything that does not yield a finite number is treated as absent.
func number(key string, raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := parseNumericString(s); ok {
			return &v
		}
		if strings.TrimSpace(s) != "" {
			log.Printf("parser.Decode: dropping %s with non-numeric value %q", key, s)
		}
		return nil
	}
	log.Printf("parser.Decode: dropping %s with unexpected value %s", key, raw)
	return nil
}

var currencySymbols = []string{"₹", "$", "€", "£", "¥"}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, sym := range currencySymbols {
		s = strings.TrimPrefix(s, sym)
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func lineItems(raw json.RawMessage) []domain.LineItem {
	if isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		log.Printf("parser.Decode: dropping line_items: not an array")
		return nil
	}

	items := make([]domain.LineItem, 0, len(elems))
	for i, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			log.Printf("parser.Decode: skipping line item %d: not an object", i)
			continue
		}
		item := domain.LineItem{
			Description:   stringField(fields, "item_description"),
			Quantity:      numberField(fields, "item_quantity"),
			UnitPrice:     numberField(fields, "item_price"),
			TaxPercentage: numberField(fields, "item_tax_percentage"),
			Total:         numberField(fields, "item_total"),
		}
		if name := stringField(fields, "item_name"); name != nil {
			item.Name = *name
		} else {
			log.Printf("parser.Decode: line item %d has no item_name", i)
		}
		items = append(items, item)
	}
	return items
}
