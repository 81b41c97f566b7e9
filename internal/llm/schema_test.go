package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchamp/docchamp/internal/common"
)

const sampleRecordJSON = `{
  "merchant": {"name": "K-Market Keskusta", "business_id": "1234567-8", "address": null, "city": "Helsinki", "phone": null},
  "receipt": {"receipt_number": "55", "date": "2026-08-20", "time": "14:31", "currency": "EUR"},
  "items": [
    {"description": "Milk 1L", "sku": null, "qty": 2, "unit_price_gross": 1.25, "line_total_gross": 2.50, "vat_rate": 14},
    {"description": "Bread", "sku": null, "qty": 1, "unit_price_gross": 2.90, "line_total_gross": 2.90, "vat_rate": 14}
  ],
  "totals": {"total_gross": 5.40, "total_net": 4.74, "total_vat": 0.66},
  "vat_breakdown": [{"vat_rate": 14, "net": 4.74, "vat": 0.66, "gross": 5.40}],
  "payment": {"method": "card", "card_last4": "1234"},
  "validation_errors": [],
  "notes": null
}`

func TestParseReceiptRecordHappyPath(t *testing.T) {
	rec, err := ParseReceiptRecord("```json\n" + sampleRecordJSON + "\n```")
	require.NoError(t, err)
	require.NotNil(t, rec.Merchant.Name)
	assert.Equal(t, "K-Market Keskusta", *rec.Merchant.Name)
	require.Len(t, rec.Items, 2)
	assert.InDelta(t, 2.50, *rec.Items[0].LineTotalGross, 0.001)
	assert.Nil(t, rec.Merchant.Address)
	assert.False(t, rec.LooksUnreadable())
}

func TestParseReceiptRecordMissingSection(t *testing.T) {
	_, err := ParseReceiptRecord(`{"merchant": {"name": null}}`)
	assert.ErrorIs(t, err, common.ErrInvalidJSON)
}

func TestParseReceiptRecordNullArraysNormalized(t *testing.T) {
	doc := `{
	  "merchant": {}, "receipt": {}, "items": null,
	  "totals": {}, "vat_breakdown": null, "payment": {},
	  "validation_errors": null, "notes": null
	}`
	rec, err := ParseReceiptRecord(doc)
	require.NoError(t, err)
	assert.NotNil(t, rec.Items)
	assert.NotNil(t, rec.VATBreakdown)
	assert.NotNil(t, rec.ValidationErrors)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"items":[]`)
	assert.Contains(t, string(out), `"validation_errors":[]`)
}

func TestValidateReceiptJSONRejectsWrongTypes(t *testing.T) {
	doc := `{
	  "merchant": {"name": 42}, "receipt": {}, "items": [],
	  "totals": {}, "vat_breakdown": [], "payment": {},
	  "validation_errors": [], "notes": null
	}`
	err := ValidateReceiptJSON(doc)
	assert.ErrorIs(t, err, common.ErrInvalidJSON)
}

func TestLooksUnreadable(t *testing.T) {
	note := "The document is not readable as a receipt."
	rec := &ReceiptRecord{Notes: &note}
	assert.True(t, rec.LooksUnreadable())

	finnish := &ReceiptRecord{ValidationErrors: []string{"Kuitti ei ole luettavissa"}}
	assert.True(t, finnish.LooksUnreadable())

	clean := &ReceiptRecord{}
	assert.False(t, clean.LooksUnreadable())
}
