package llm

import "strings"

// ReceiptRecord is the structured form of one receipt. Pointer fields encode
// the explicit null the extraction prompt demands for unknown values.
type ReceiptRecord struct {
	Merchant         Merchant    `json:"merchant"`
	Receipt          ReceiptInfo `json:"receipt"`
	Items            []LineItem  `json:"items"`
	Totals           Totals      `json:"totals"`
	VATBreakdown     []VATLine   `json:"vat_breakdown"`
	Payment          Payment     `json:"payment"`
	ValidationErrors []string    `json:"validation_errors"`
	Notes            *string     `json:"notes"`
}

type Merchant struct {
	Name       *string `json:"name"`
	BusinessID *string `json:"business_id"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Phone      *string `json:"phone"`
}

type ReceiptInfo struct {
	ReceiptNumber *string `json:"receipt_number"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Currency      *string `json:"currency"`
}

type LineItem struct {
	Description    *string  `json:"description"`
	SKU            *string  `json:"sku"`
	Qty            *float64 `json:"qty"`
	UnitPriceGross *float64 `json:"unit_price_gross"`
	LineTotalGross *float64 `json:"line_total_gross"`
	VATRate        *float64 `json:"vat_rate"`
}

type Totals struct {
	TotalGross *float64 `json:"total_gross"`
	TotalNet   *float64 `json:"total_net"`
	TotalVAT   *float64 `json:"total_vat"`
}

type VATLine struct {
	VATRate *float64 `json:"vat_rate"`
	Net     *float64 `json:"net"`
	VAT     *float64 `json:"vat"`
	Gross   *float64 `json:"gross"`
}

type Payment struct {
	Method    *string `json:"method"`
	CardLast4 *string `json:"card_last4"`
}

// Normalize replaces nil slices so a re-marshalled record always carries
// every top-level key with [] instead of null.
func (r *ReceiptRecord) Normalize() {
	if r.Items == nil {
		r.Items = []LineItem{}
	}
	if r.VATBreakdown == nil {
		r.VATBreakdown = []VATLine{}
	}
	if r.ValidationErrors == nil {
		r.ValidationErrors = []string{}
	}
}

// unreadableMarkers are phrases models use when the OCR text was not a
// readable receipt. Matched case-insensitively against notes and
// validation errors.
var unreadableMarkers = []string{
	"ei ole luettavissa",
	"ei sisällä",
	"not readable",
	"unreadable",
	"cannot be read",
	"no valid receipt data",
	"does not contain relevant",
	"not a receipt",
}

// LooksUnreadable is a presentation hint: true when the record carries a
// model remark that the source document was not readable as a receipt. It
// never affects extraction results.
func (r *ReceiptRecord) LooksUnreadable() bool {
	fields := make([]string, 0, len(r.ValidationErrors)+1)
	if r.Notes != nil {
		fields = append(fields, *r.Notes)
	}
	fields = append(fields, r.ValidationErrors...)
	for _, f := range fields {
		lower := strings.ToLower(f)
		for _, marker := range unreadableMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}
