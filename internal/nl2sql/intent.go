package nl2sql

import (
	"context"
	"strings"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/llm"
)

// Intent selects the schema retrieval strategy for a question.
type Intent string

const (
	IntentAuditHistory  Intent = "audit_history"
	IntentDataRetrieval Intent = "data_retrieval"
)

// Classifier labels the latest question of a conversation.
type Classifier struct {
	completer Completer
}

// NewClassifier creates a classifier backed by completer.
func NewClassifier(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify returns the intent of the last question in history. Any failure or
// unexpected label falls back to IntentDataRetrieval.
func (c *Classifier) Classify(ctx context.Context, history []llm.Message) Intent {
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := c.completer.ChatWithMessages(ctx, withSystemPrompt(intentPrompt, history), llm.ChatParams{
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		logger.ErrorContext(ctx, "intent classification failed", "error", err)
		return IntentDataRetrieval
	}

	intent := Intent(strings.ToLower(strings.TrimSpace(reply)))
	switch intent {
	case IntentAuditHistory, IntentDataRetrieval:
		logger.InfoContext(ctx, "classified intent", "intent", intent)
		return intent
	default:
		logger.WarnContext(ctx, "intent classification returned an invalid category, defaulting to data_retrieval", "reply", reply)
		return IntentDataRetrieval
	}
}
