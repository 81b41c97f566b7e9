package export

import (
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/llm"
)

// Service writes extracted receipt records to spreadsheet workbooks.
type Service struct {
	log *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{log: logger}
}

var receiptHeaders = []string{
	"Merchant", "Business ID", "City", "Date", "Time", "Currency",
	"Total Gross", "Total Net", "Total VAT", "Payment", "Validation Errors", "Notes",
}

var itemHeaders = []string{
	"Receipt #", "Merchant", "Description", "SKU", "Qty",
	"Unit Price Gross", "Line Total Gross", "VAT %",
}

var vatHeaders = []string{"Receipt #", "Merchant", "VAT %", "Net", "VAT", "Gross"}

// ReceiptWorkbook builds an XLSX workbook with one summary row per record
// plus detail sheets for line items and the VAT breakdown.
func (s *Service) ReceiptWorkbook(records []*llm.ReceiptRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, common.NewAppError("NO_RECORDS", "nothing to export", common.ErrInvalidInput)
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Receipts"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Items"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("VAT"); err != nil {
		return nil, err
	}

	if err := writeRow(f, summarySheet, 1, toCells(receiptHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, "Items", 1, toCells(itemHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, "VAT", 1, toCells(vatHeaders)); err != nil {
		return nil, err
	}

	itemRow, vatRow := 2, 2
	for i, rec := range records {
		merchant := str(rec.Merchant.Name)
		err := writeRow(f, summarySheet, i+2, []any{
			merchant,
			str(rec.Merchant.BusinessID),
			str(rec.Merchant.City),
			str(rec.Receipt.Date),
			str(rec.Receipt.Time),
			str(rec.Receipt.Currency),
			num(rec.Totals.TotalGross),
			num(rec.Totals.TotalNet),
			num(rec.Totals.TotalVAT),
			str(rec.Payment.Method),
			strings.Join(rec.ValidationErrors, "; "),
			str(rec.Notes),
		})
		if err != nil {
			return nil, err
		}

		for _, item := range rec.Items {
			err := writeRow(f, "Items", itemRow, []any{
				i + 1, merchant,
				str(item.Description), str(item.SKU),
				num(item.Qty), num(item.UnitPriceGross),
				num(item.LineTotalGross), num(item.VATRate),
			})
			if err != nil {
				return nil, err
			}
			itemRow++
		}
		for _, v := range rec.VATBreakdown {
			err := writeRow(f, "VAT", vatRow, []any{
				i + 1, merchant,
				num(v.VATRate), num(v.Net), num(v.VAT), num(v.Gross),
			})
			if err != nil {
				return nil, err
			}
			vatRow++
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "L", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth("Items", "A", "H", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth("VAT", "A", "F", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	s.log.Info("export.workbook.done",
		"receipts", len(records),
		"items", itemRow-2,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toCells(headers []string) []any {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// num keeps nulls as blank cells rather than zeroes.
func num(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}
