package llm

import "context"

// Roles of chat history entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat history entry: a single utterance by either side.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service is the language-model surface of the application. All operations
// are stateless; conversation history travels with the call.
type Service interface {
	// Chat answers a free-form question, optionally grounded on an
	// extracted document. The document is injected as untrusted content,
	// never as instructions.
	Chat(ctx context.Context, message string, history []Message, document string) (string, error)

	// ExtractReceipt turns raw OCR text into the structured receipt JSON.
	// The response is the model's raw output; run it through
	// ParseReceiptRecord to repair and validate it.
	ExtractReceipt(ctx context.Context, ocrText, question string) (string, error)

	// AnalyzePurchases answers a question about an already-extracted
	// receipt record.
	AnalyzePurchases(ctx context.Context, record *ReceiptRecord, question string) (string, error)
}
