// Package nl2sql holds the three language-model stages of a query: intent
// classification, SQL generation and result summarization.
package nl2sql

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks tmsbot/internal/nl2sql Completer

import (
	"context"

	"tmsbot/internal/llm"
)

// Completer sends a chat completion request. *llm.Client implements it.
type Completer interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

func withSystemPrompt(prompt string, history []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt})
	return append(messages, history...)
}
