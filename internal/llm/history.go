package llm

// maxHistoryMessages bounds how much chat history is replayed to the model.
// Counted in individual messages, not exchanges; older entries are dropped
// silently.
const maxHistoryMessages = 10

func recentMessages(history []Message) []Message {
	if len(history) <= maxHistoryMessages {
		return history
	}
	return history[len(history)-maxHistoryMessages:]
}
