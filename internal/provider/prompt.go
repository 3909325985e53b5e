package provider

// ExtractionPrompt is sent with every page. The keys it names are the keys
// parser.Parse understands; keep the two in sync.
const ExtractionPrompt = `Extract invoice data and return ONLY valid JSON with this exact structure:

{
  "customer_name": "string or null",
  "customer_address": "string or null",
  "customer_phone": "string or null",
  "customer_email": "string or null",
  "customer_gstin": "string or null",
  "invoice_number": "string or null",
  "invoice_date": "string or null",
  "total_amount": number or null,
  "tax_amount": number or null,
  "discount_amount": number or null,
  "currency": "string or null",
  "line_items": [
    {
      "item_name": "string",
      "item_description": "string or null",
      "item_quantity": number or null,
      "item_price": number or null,
      "item_tax_percentage": number or null,
      "item_total": number or null
    }
  ]
}

If a field is not present, use null.
Return ONLY the JSON.`
