package llm

import (
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docchamp/docchamp/internal/common"
)

func nullable(t string) map[string]any {
	return map[string]any{"type": []string{t, "null"}}
}

// receiptSchema is the machine-checked counterpart of the extraction
// prompt's shape description.
func receiptSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"required": []string{
			"merchant", "receipt", "items", "totals",
			"vat_breakdown", "payment", "validation_errors", "notes",
		},
		"properties": map[string]any{
			"merchant": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        nullable("string"),
					"business_id": nullable("string"),
					"address":     nullable("string"),
					"city":        nullable("string"),
					"phone":       nullable("string"),
				},
			},
			"receipt": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"receipt_number": nullable("string"),
					"date":           nullable("string"),
					"time":           nullable("string"),
					"currency":       nullable("string"),
				},
			},
			"items": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description":      nullable("string"),
						"sku":              nullable("string"),
						"qty":              nullable("number"),
						"unit_price_gross": nullable("number"),
						"line_total_gross": nullable("number"),
						"vat_rate":         nullable("number"),
					},
				},
			},
			"totals": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"total_gross": nullable("number"),
					"total_net":   nullable("number"),
					"total_vat":   nullable("number"),
				},
			},
			"vat_breakdown": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"vat_rate": nullable("number"),
						"net":      nullable("number"),
						"vat":      nullable("number"),
						"gross":    nullable("number"),
					},
				},
			},
			"payment": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"method":     nullable("string"),
					"card_last4": nullable("string"),
				},
			},
			"validation_errors": map[string]any{
				"type":  []string{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"notes": nullable("string"),
		},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileReceiptSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := json.Marshal(receiptSchema())
		if err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = jsonschema.CompileString("receipt.schema.json", string(raw))
	})
	return compiledSchema, schemaErr
}

// ValidateReceiptJSON checks a repaired JSON document against the receipt
// schema.
func ValidateReceiptJSON(doc string) error {
	sch, err := compileReceiptSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return common.NewAppError("INVALID_JSON", "document is not valid json", common.ErrInvalidJSON)
	}
	if err := sch.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_MISMATCH", err.Error(), common.ErrInvalidJSON)
	}
	return nil
}

// ParseReceiptRecord turns a raw model response into a validated
// ReceiptRecord: repair, schema check, decode, normalize.
func ParseReceiptRecord(raw string) (*ReceiptRecord, error) {
	repaired, err := RepairJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateReceiptJSON(repaired); err != nil {
		return nil, err
	}
	var rec ReceiptRecord
	if err := json.Unmarshal([]byte(repaired), &rec); err != nil {
		return nil, common.NewAppError("DECODE_FAILED", "could not decode receipt record", common.ErrInvalidJSON)
	}
	rec.Normalize()
	return &rec, nil
}
