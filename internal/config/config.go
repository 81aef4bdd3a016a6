package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Schema index backends.
const (
	BackendMemory = "memory"
	BackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	// LLMBaseURL is the OpenAI-compatible endpoint used when AzureEndpoint is empty.
	LLMBaseURL string
	LLMAPIKey  string
	// LLMModelName is the chat model, or the chat deployment name in Azure mode.
	LLMModelName string
	// AzureEndpoint switches the LLM clients to Azure OpenAI when set.
	AzureEndpoint   string
	AzureAPIVersion string
	// EmbeddingModelName is the embeddings model, or the embeddings deployment name in Azure mode.
	EmbeddingModelName string

	DatabaseDriver   string
	TMSDatabaseURL   string
	AuditDatabaseURL string
	DBMaxOpenConns   int

	SchemaPath      string
	SchemaDelimiter string
	SchemaTopK      int

	// AuditSchemaMarker routes any SQL text containing it to the audit database.
	AuditSchemaMarker string
	// AuditTables are the tables fetched by name for audit-history questions.
	AuditTables []string

	SchemaIndexBackend string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// UseAzure reports whether the LLM clients should target Azure OpenAI.
func (c *Config) UseAzure() bool {
	return c.AzureEndpoint != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up looking for a project-level .env (config/.env is also accepted).
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			for _, candidate := range []string{".env", filepath.Join("config", ".env")} {
				envPath := filepath.Join(dir, candidate)
				if _, err := os.Stat(envPath); err == nil {
					_ = godotenv.Load(envPath)
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com/v1/"),
		LLMAPIKey:          getEnvAny([]string{"LLM_API_KEY", "AZURE_OPENAI_API_KEY"}, ""),
		LLMModelName:       getEnvAny([]string{"LLM_MODEL", "AZURE_OPENAI_MODEL_NAME"}, ""),
		AzureEndpoint:      getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureAPIVersion:    getEnv("AZURE_API_VERSION", "2024-06-01"),
		EmbeddingModelName: getEnvAny([]string{"EMBEDDING_MODEL_NAME", "AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME"}, ""),
		DatabaseDriver:     getEnv("DATABASE_DRIVER", "sqlserver"),
		TMSDatabaseURL:     getEnv("DATABASE_URL_TMS", ""),
		AuditDatabaseURL:   getEnv("DATABASE_URL_AUDIT", ""),
		SchemaPath:         getEnv("SCHEMA_PATH", "./models/schema_description.txt"),
		SchemaDelimiter:    getEnv("SCHEMA_DELIMITER", "---"),
		AuditSchemaMarker:  getEnv("AUDIT_SCHEMA_MARKER", "PSGAuditStats"),
		AuditTables:        splitList(getEnv("AUDIT_TABLES", "PSGAuditStats.tblAuditLogMaster,PSGAuditStats.tblAuditLogDetail")),
		SchemaIndexBackend: strings.ToLower(getEnv("SCHEMA_INDEX_BACKEND", BackendMemory)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "schemas"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.SchemaTopK, err = getEnvInt("SCHEMA_TOP_K", 2); err != nil {
		return nil, err
	}
	if cfg.SchemaTopK <= 0 {
		return nil, fmt.Errorf("SCHEMA_TOP_K must be greater than 0")
	}
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize, err = getEnvInt("QDRANT_VECTOR_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY (or AZURE_OPENAI_API_KEY) is required")
	}
	if cfg.LLMModelName == "" {
		return nil, fmt.Errorf("LLM_MODEL (or AZURE_OPENAI_MODEL_NAME) is required")
	}
	if cfg.EmbeddingModelName == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL_NAME (or AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME) is required")
	}
	if cfg.TMSDatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL_TMS is required")
	}
	if cfg.AuditDatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL_AUDIT is required")
	}
	switch cfg.DatabaseDriver {
	case "sqlserver", "pgx", "sqlite3":
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be one of sqlserver, pgx, sqlite3, got %q", cfg.DatabaseDriver)
	}
	if cfg.SchemaDelimiter == "" {
		return nil, fmt.Errorf("SCHEMA_DELIMITER cannot be empty")
	}
	if len(cfg.AuditTables) == 0 {
		return nil, fmt.Errorf("AUDIT_TABLES must list at least one table")
	}
	switch cfg.SchemaIndexBackend {
	case BackendMemory:
	case BackendQdrant:
		// The collection is created with this size, so it must match the embedding model output.
		if cfg.QdrantVectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0 when SCHEMA_INDEX_BACKEND=qdrant")
		}
	default:
		return nil, fmt.Errorf("SCHEMA_INDEX_BACKEND must be %q or %q, got %q", BackendMemory, BackendQdrant, cfg.SchemaIndexBackend)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAny returns the first non-empty value among keys.
func getEnvAny(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return value, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
