package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/export"
	"github.com/docchamp/docchamp/internal/extract"
	"github.com/docchamp/docchamp/internal/llm"
	"github.com/docchamp/docchamp/internal/ocr"
	"github.com/docchamp/docchamp/internal/vision"
)

// docchamp runs the full pipeline for one document: text extraction,
// structured receipt extraction, and optional analysis and export.
func main() {
	var (
		file     = flag.String("file", "", "document to process (pdf or image)")
		question = flag.String("question", "", "extra instruction passed to the extraction model")
		analyze  = flag.String("analyze", "", "question to answer about the extracted record")
		xlsxOut  = flag.String("xlsx", "", "write the extracted record to this xlsx file")
		textOnly = flag.Bool("text-only", false, "stop after text extraction, skip the model")
		noDetect = flag.Bool("no-detect", false, "disable receipt region detection")
	)
	flag.Parse()

	_ = godotenv.Load()
	logger := newLogger()
	slog.SetDefault(logger)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: docchamp -file <document> [-question ...] [-analyze ...] [-xlsx out.xlsx]")
		os.Exit(2)
	}

	if err := run(logger, *file, *question, *analyze, *xlsxOut, *textOnly, *noDetect); err != nil {
		logger.Error("docchamp.failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, file, question, analyze, xlsxOut string, textOnly, noDetect bool) error {
	cfg := common.LoadConfig()
	if !textOnly {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var detector vision.Detector
	if !noDetect {
		detector = vision.NewReceiptDetector(vision.DefaultDetectConfig(), logger)
	}
	engine := ocr.NewTesseractEngine(cfg.OCR.TessdataDir, logger)
	gateway := extract.NewGateway(engine, detector, cfg.OCR, logger)

	ctx := common.WithRequestID(context.Background(), uuid.New().String())
	ctx, cancel := common.WithTimeout(ctx, cfg.LLM.Timeout)
	defer cancel()

	res, err := gateway.Extract(ctx, filepath.Base(file), data)
	if err != nil {
		return err
	}
	if textOnly {
		fmt.Println(res.Text)
		return nil
	}

	svc, err := llm.NewService(cfg.LLM, logger)
	if err != nil {
		return err
	}

	raw, err := svc.ExtractReceipt(ctx, res.Text, question)
	if err != nil {
		return err
	}
	rec, err := llm.ParseReceiptRecord(raw)
	if err != nil {
		return err
	}
	if rec.LooksUnreadable() {
		logger.Warn("docchamp.record.unreadable", "file", file)
		fmt.Fprintln(os.Stderr, "note: the model could not read this document as a receipt")
	} else if len(rec.Items) == 0 && len(rec.ValidationErrors) > 0 {
		logger.Warn("docchamp.record.low_quality", "file", file, "validation_errors", len(rec.ValidationErrors))
		fmt.Fprintln(os.Stderr, "note: no line items were extracted; try a tighter photo of the receipt")
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if analyze != "" {
		answer, err := svc.AnalyzePurchases(ctx, rec, analyze)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(answer)
	}

	if xlsxOut != "" {
		book, err := export.NewService(logger).ReceiptWorkbook([]*llm.ReceiptRecord{rec})
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxOut, book, 0o644); err != nil {
			return err
		}
		logger.Info("docchamp.xlsx.written", "path", xlsxOut, "bytes", len(book))
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
