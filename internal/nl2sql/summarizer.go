package nl2sql

import (
	"context"
	"fmt"
	"strings"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/llm"
)

const summaryRequest = "Please provide the final, user-friendly summary."

// Summarizer phrases a result digest as an answer to the latest question.
type Summarizer struct {
	completer Completer
}

// NewSummarizer creates a summarizer backed by completer.
func NewSummarizer(completer Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize answers the last question in history from digest. It never fails:
// a failed call yields an error text as the summary.
func (s *Summarizer) Summarize(ctx context.Context, history []llm.Message, digest string) string {
	logger := contextutil.LoggerFromContext(ctx)

	question := ""
	if len(history) > 0 {
		question = history[len(history)-1].Content
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: summarizerPrompt(question, transcript(history), digest)},
		{Role: llm.RoleUser, Content: summaryRequest},
	}
	reply, err := s.completer.ChatWithMessages(ctx, messages, llm.ChatParams{
		MaxTokens:   1500,
		Temperature: 0,
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("empty completion")
	}
	if err != nil {
		logger.ErrorContext(ctx, "summarization failed", "error", err)
		return fmt.Sprintf("Error: Failed to summarize the result. %v", err)
	}

	return strings.TrimSpace(reply)
}

// transcript renders history one turn per line.
func transcript(history []llm.Message) string {
	var sb strings.Builder
	for i, msg := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}
