package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tmsbot/internal/config"
	"tmsbot/internal/http"
	"tmsbot/internal/llm"
	"tmsbot/internal/nl2sql"
	"tmsbot/internal/query"
	"tmsbot/internal/rag"
	"tmsbot/internal/service"
	"tmsbot/internal/storage"
	"tmsbot/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	llmOpts := llm.Options{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
	}
	if cfg.UseAzure() {
		llmOpts.AzureEndpoint = cfg.AzureEndpoint
		llmOpts.AzureAPIVersion = cfg.AzureAPIVersion
	}

	embedder := llm.NewEmbeddingsClient(llmOpts, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(llmOpts, cfg.LLMModelName)
	slog.Debug("LLM configuration", "azure", cfg.UseAzure(), "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName, "embedding_model", cfg.EmbeddingModelName)

	// Select the schema vector backend
	var store vectorstore.VectorStore
	switch cfg.SchemaIndexBackend {
	case config.BackendQdrant:
		// Validate embedding client vector size (fail-fast)
		testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
			log.Fatalf("Embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
		}

		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = qdrantStore.Close()
		}()

		// The index is rebuilt from the schema document on every start.
		if err := qdrantStore.ResetCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to prepare Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
		store = qdrantStore
	default:
		store = vectorstore.NewMemoryStore()
	}

	index := rag.NewIndex(embedder, store, cfg.QdrantCollection)
	if err := index.LoadFile(ctx, cfg.SchemaPath, cfg.SchemaDelimiter); err != nil {
		log.Fatalf("Failed to load schema index: %v", err)
	}
	slog.Info("Schema index loaded", "path", cfg.SchemaPath, "chunks", index.Len(), "backend", cfg.SchemaIndexBackend)

	// Initialize databases
	tmsDB, err := storage.Open(ctx, storage.DBConfig{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.TMSDatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxIdleTime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to open TMS database: %v", err)
	}
	defer func() {
		_ = tmsDB.Close()
	}()

	auditDB, err := storage.Open(ctx, storage.DBConfig{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.AuditDatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxIdleTime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to open Audit database: %v", err)
	}
	defer func() {
		_ = auditDB.Close()
	}()
	slog.Info("Databases initialized", "driver", cfg.DatabaseDriver)

	executor := query.NewExecutor(tmsDB, auditDB, query.Router{AuditMarker: cfg.AuditSchemaMarker})

	queryService := service.NewQueryService(service.Deps{
		Index:      index,
		Classifier: nl2sql.NewClassifier(llmClient),
		Generator:  nl2sql.NewGenerator(llmClient),
		Runner:     executor,
		Summarizer: nl2sql.NewSummarizer(llmClient),
	}, service.Options{
		TopK:        cfg.SchemaTopK,
		AuditTables: cfg.AuditTables,
	})

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		QueryService: queryService,
		Index:        index,
		Databases:    executor,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	slog.Info("Shutting down API server")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxTimeout); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
