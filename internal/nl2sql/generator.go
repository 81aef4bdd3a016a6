package nl2sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/llm"
)

var (
	// ErrCannotAnswer is returned when the model signals the question cannot be
	// answered from the schemas.
	ErrCannotAnswer = errors.New("ERROR: The question cannot be answered with the available data.")
	// ErrEmptyCompletion is returned when the model produced no SQL.
	ErrEmptyCompletion = errors.New("model returned empty SQL")
)

// Generator turns a conversation and retrieved schema text into one SQL query.
type Generator struct {
	completer Completer
	now       func() time.Time
}

// NewGenerator creates a generator backed by completer.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer, now: time.Now}
}

// Generate returns the candidate SQL for the last question in history. The
// text is not validated here.
func (g *Generator) Generate(ctx context.Context, history []llm.Message, schemas string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := generatorPrompt(g.now(), schemas)
	reply, err := g.completer.ChatWithMessages(ctx, withSystemPrompt(prompt, history), llm.ChatParams{
		MaxTokens:   500,
		Temperature: 0,
	})
	if err != nil {
		logger.ErrorContext(ctx, "sql generation call failed", "error", err)
		return "", fmt.Errorf("failed to generate SQL query: %w", err)
	}

	sql := stripMarkdownSQL(reply)
	if sql == "" {
		return "", ErrEmptyCompletion
	}
	if strings.Contains(strings.ToUpper(sql), "ERROR") {
		logger.WarnContext(ctx, "model declined to generate SQL", "reply", sql)
		return "", ErrCannotAnswer
	}

	logger.InfoContext(ctx, "generated SQL", "sql", sql)
	return sql, nil
}

func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```tsql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
