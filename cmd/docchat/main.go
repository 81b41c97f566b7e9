package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/docchamp/docchamp/internal/common"
	"github.com/docchamp/docchamp/internal/extract"
	"github.com/docchamp/docchamp/internal/llm"
	"github.com/docchamp/docchamp/internal/ocr"
	"github.com/docchamp/docchamp/internal/vision"
)

// docchat is an interactive question/answer loop, optionally grounded on an
// extracted document.
func main() {
	file := flag.String("file", "", "optional document to chat about")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger, *file); err != nil {
		logger.Error("docchat.failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, file string) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := llm.NewService(cfg.LLM, logger)
	if err != nil {
		return err
	}

	document := ""
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		detector := vision.NewReceiptDetector(vision.DefaultDetectConfig(), logger)
		engine := ocr.NewTesseractEngine(cfg.OCR.TessdataDir, logger)
		gateway := extract.NewGateway(engine, detector, cfg.OCR, logger)

		res, err := gateway.Extract(context.Background(), filepath.Base(file), data)
		if err != nil {
			return err
		}
		document = res.Text
		fmt.Printf("Loaded %s (%d characters extracted). Ask away; 'exit' quits.\n", file, len(document))
	} else {
		fmt.Println("No document loaded. Ask away; 'exit' quits.")
	}

	var history []llm.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}

		ctx := common.WithRequestID(context.Background(), uuid.New().String())
		ctx, cancel := common.WithTimeout(ctx, cfg.LLM.Timeout)
		answer, err := svc.Chat(ctx, message, history, document)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(answer)
		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: message},
			llm.Message{Role: llm.RoleAssistant, Content: answer})
	}
	return scanner.Err()
}
