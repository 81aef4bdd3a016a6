package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks tmsbot/internal/service SchemaIndex,IntentClassifier,SQLGenerator,QueryRunner,ResultSummarizer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_service.go -package=mocks tmsbot/internal/service QueryService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/dates"
	"tmsbot/internal/digest"
	"tmsbot/internal/llm"
	"tmsbot/internal/nl2sql"
	"tmsbot/internal/observability"
	"tmsbot/internal/query"
	"tmsbot/internal/sqlguard"
)

// SchemaIndex selects schema text for a question. *rag.Index implements it.
type SchemaIndex interface {
	RetrieveTopK(ctx context.Context, question string, k int) (string, error)
	RetrieveByNames(ctx context.Context, names []string) string
}

// IntentClassifier labels the latest question. It never fails.
type IntentClassifier interface {
	Classify(ctx context.Context, history []llm.Message) nl2sql.Intent
}

// SQLGenerator produces candidate SQL for the latest question.
type SQLGenerator interface {
	Generate(ctx context.Context, history []llm.Message, schemas string) (string, error)
}

// QueryRunner executes validated SQL. *query.Executor implements it.
type QueryRunner interface {
	Run(ctx context.Context, q sqlguard.Query) (query.Table, error)
}

// ResultSummarizer phrases a result digest. It never fails.
type ResultSummarizer interface {
	Summarize(ctx context.Context, history []llm.Message, digest string) string
}

// QueryRequest is a conversation whose last turn is the question to answer.
type QueryRequest struct {
	History []llm.Message
}

// QueryResponse is the answer to a QueryRequest.
type QueryResponse struct {
	Summary     string
	SQLQuery    string
	QueryResult []map[string]any
}

// QueryService answers natural-language questions against the TMS databases.
type QueryService interface {
	// ProcessQuery runs the full pipeline for req and returns the first failure.
	ProcessQuery(ctx context.Context, req QueryRequest) (QueryResponse, error)
}

// Deps are the pipeline stages used by the query service.
type Deps struct {
	Index      SchemaIndex
	Classifier IntentClassifier
	Generator  SQLGenerator
	Runner     QueryRunner
	Summarizer ResultSummarizer
}

// Options tunes schema selection.
type Options struct {
	// TopK is the number of schema chunks retrieved for data questions.
	TopK int
	// AuditTables are fetched by name for audit-history questions.
	AuditTables []string
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

type queryService struct {
	deps Deps
	opts Options
}

// NewQueryService creates a new QueryService.
func NewQueryService(deps Deps, opts Options) QueryService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &queryService{deps: deps, opts: opts}
}

// ProcessQuery processes a query request.
func (s *queryService) ProcessQuery(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateHistory(req.History); err != nil {
		logger.WarnContext(ctx, "invalid query request", "error", err)
		return QueryResponse{}, err
	}

	// Downstream stages see a copy whose last turn may be rewritten.
	history := make([]llm.Message, len(req.History))
	copy(history, req.History)
	last := len(history) - 1

	intent := s.deps.Classifier.Classify(ctx, history)
	observability.ObserveIntent(string(intent))

	if rewritten, ok := dates.Normalize(history[last].Content, s.opts.Now()); ok {
		logger.InfoContext(ctx, "normalized relative date", "question", rewritten)
		history[last].Content = rewritten
	}
	question := history[last].Content

	var schemas string
	if intent == nl2sql.IntentAuditHistory {
		schemas = s.deps.Index.RetrieveByNames(ctx, s.opts.AuditTables)
	} else {
		var err error
		schemas, err = s.deps.Index.RetrieveTopK(ctx, question, s.opts.TopK)
		if err != nil {
			observability.ObserveStage("retrieve", observability.OutcomeError)
			logger.ErrorContext(ctx, "schema retrieval failed", "error", err)
			return QueryResponse{}, WrapError(fmt.Errorf("%w: %w", ErrExternalService, err), "failed to retrieve schemas")
		}
	}
	observability.ObserveStage("retrieve", observability.OutcomeOK)

	sql, err := s.deps.Generator.Generate(ctx, history, schemas)
	if err != nil {
		observability.ObserveStage("generate", observability.OutcomeError)
		return QueryResponse{}, &GenerationError{Err: err}
	}
	observability.ObserveStage("generate", observability.OutcomeOK)

	validated, outcome, err := sqlguard.Accept(sql)
	if err != nil {
		observability.ObserveStage("validate_sql", observability.OutcomeRejected)
		logger.WarnContext(ctx, "generated SQL rejected", "sql", sql, "reason", outcome.Reason)
		return QueryResponse{}, &UnsafeQueryError{SQL: sql, Reason: outcome.Reason}
	}
	observability.ObserveStage("validate_sql", observability.OutcomeOK)

	table, err := s.deps.Runner.Run(ctx, validated)
	if err != nil {
		observability.ObserveStage("execute", observability.OutcomeError)
		logger.ErrorContext(ctx, "query execution failed", "error", err)
		return QueryResponse{}, &ExecutionError{Err: err}
	}
	observability.ObserveStage("execute", observability.OutcomeOK)

	summary := s.deps.Summarizer.Summarize(ctx, history, digest.Aggregate(table))

	logger.InfoContext(ctx, "query processed successfully", "intent", intent, "rows", table.Len())
	return QueryResponse{
		Summary:     summary,
		SQLQuery:    sql,
		QueryResult: table.Records(),
	}, nil
}

func validateHistory(history []llm.Message) error {
	if len(history) == 0 {
		return &ValidationError{Field: "history", Message: "History cannot be empty."}
	}
	for i, msg := range history {
		if !llm.ValidRole(msg.Role) {
			return &ValidationError{
				Field:   fmt.Sprintf("history[%d].role", i),
				Message: fmt.Sprintf("Unsupported role %q.", msg.Role),
			}
		}
	}
	last := len(history) - 1
	if history[last].Role != llm.RoleUser {
		return &ValidationError{
			Field:   fmt.Sprintf("history[%d].role", last),
			Message: "The last message must come from the user.",
		}
	}
	if strings.TrimSpace(history[last].Content) == "" {
		return &ValidationError{
			Field:   fmt.Sprintf("history[%d].content", last),
			Message: "Question cannot be empty.",
		}
	}
	return nil
}
