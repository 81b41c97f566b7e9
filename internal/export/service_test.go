package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/llm"
)

func testService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleRecord() *llm.ReceiptRecord {
	name := "K-Market Keskusta"
	date := "2026-08-20"
	currency := "EUR"
	gross := 5.40
	desc := "Milk 1L"
	qty := 2.0
	lineTotal := 2.50
	rec := &llm.ReceiptRecord{
		Merchant: llm.Merchant{Name: &name},
		Receipt:  llm.ReceiptInfo{Date: &date, Currency: &currency},
		Items: []llm.LineItem{
			{Description: &desc, Qty: &qty, LineTotalGross: &lineTotal},
		},
		Totals: llm.Totals{TotalGross: &gross},
	}
	rec.Normalize()
	return rec
}

func TestReceiptWorkbookEmptyInput(t *testing.T) {
	_, err := testService().ReceiptWorkbook(nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestReceiptWorkbookRoundTrip(t *testing.T) {
	data, err := testService().ReceiptWorkbook([]*llm.ReceiptRecord{sampleRecord()})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Receipts", "Items", "VAT"}, f.GetSheetList())

	merchant, err := f.GetCellValue("Receipts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "K-Market Keskusta", merchant)

	gross, err := f.GetCellValue("Receipts", "G2")
	require.NoError(t, err)
	assert.Equal(t, "5.4", gross)

	itemDesc, err := f.GetCellValue("Items", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Milk 1L", itemDesc)
}

func TestReceiptWorkbookNullsStayBlank(t *testing.T) {
	rec := &llm.ReceiptRecord{}
	rec.Normalize()
	data, err := testService().ReceiptWorkbook([]*llm.ReceiptRecord{rec})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	gross, err := f.GetCellValue("Receipts", "G2")
	require.NoError(t, err)
	assert.Equal(t, "", gross)
}
