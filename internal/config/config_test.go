package config

import (
	"log/slog"
	"os"
	"testing"
)

var envVars = []string{
	"LLM_BASE_URL", "LLM_API_KEY", "AZURE_OPENAI_API_KEY", "LLM_MODEL", "AZURE_OPENAI_MODEL_NAME",
	"AZURE_OPENAI_ENDPOINT", "AZURE_API_VERSION",
	"EMBEDDING_MODEL_NAME", "AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME",
	"DATABASE_DRIVER", "DATABASE_URL_TMS", "DATABASE_URL_AUDIT", "DB_MAX_OPEN_CONNS",
	"SCHEMA_PATH", "SCHEMA_DELIMITER", "SCHEMA_TOP_K", "AUDIT_SCHEMA_MARKER", "AUDIT_TABLES",
	"SCHEMA_INDEX_BACKEND", "QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("EMBEDDING_MODEL_NAME", "text-embedding-3-small")
	t.Setenv("DATABASE_URL_TMS", "sqlserver://tms")
	t.Setenv("DATABASE_URL_AUDIT", "sqlserver://audit")
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "valid config with all required fields",
			setupEnv: setRequired,
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMAPIKey == "test-key" &&
					cfg.LLMModelName == "gpt-4o" &&
					cfg.TMSDatabaseURL == "sqlserver://tms" &&
					cfg.AuditDatabaseURL == "sqlserver://audit"
			},
		},
		{
			name: "default values for optional fields",
			setupEnv: setRequired,
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMBaseURL == "https://api.openai.com/v1/" &&
					!cfg.UseAzure() &&
					cfg.AzureAPIVersion == "2024-06-01" &&
					cfg.DatabaseDriver == "sqlserver" &&
					cfg.DBMaxOpenConns == 10 &&
					cfg.SchemaPath == "./models/schema_description.txt" &&
					cfg.SchemaDelimiter == "---" &&
					cfg.SchemaTopK == 2 &&
					cfg.AuditSchemaMarker == "PSGAuditStats" &&
					len(cfg.AuditTables) == 2 &&
					cfg.AuditTables[0] == "PSGAuditStats.tblAuditLogMaster" &&
					cfg.SchemaIndexBackend == BackendMemory &&
					cfg.APIPort == "8000" &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text"
			},
		},
		{
			name: "azure variable names",
			setupEnv: func(t *testing.T) {
				t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
				t.Setenv("AZURE_OPENAI_API_KEY", "azure-key")
				t.Setenv("AZURE_OPENAI_MODEL_NAME", "gpt-4o-deployment")
				t.Setenv("AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME", "embedding-deployment")
				t.Setenv("DATABASE_URL_TMS", "sqlserver://tms")
				t.Setenv("DATABASE_URL_AUDIT", "sqlserver://audit")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.UseAzure() &&
					cfg.LLMAPIKey == "azure-key" &&
					cfg.LLMModelName == "gpt-4o-deployment" &&
					cfg.EmbeddingModelName == "embedding-deployment"
			},
		},
		{
			name: "custom optional values",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("DATABASE_DRIVER", "pgx")
				t.Setenv("SCHEMA_TOP_K", "4")
				t.Setenv("AUDIT_TABLES", " audit.a , audit.b ,, ")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "JSON")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.DatabaseDriver == "pgx" &&
					cfg.SchemaTopK == 4 &&
					len(cfg.AuditTables) == 2 &&
					cfg.AuditTables[1] == "audit.b" &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "missing api key",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("LLM_API_KEY", "")
			},
			wantErr: true,
		},
		{
			name: "missing embedding model",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("EMBEDDING_MODEL_NAME", "")
			},
			wantErr: true,
		},
		{
			name: "missing audit database",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("DATABASE_URL_AUDIT", "")
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("DATABASE_DRIVER", "oracle")
			},
			wantErr: true,
		},
		{
			name: "zero top k",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("SCHEMA_TOP_K", "0")
			},
			wantErr: true,
		},
		{
			name: "invalid top k",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("SCHEMA_TOP_K", "two")
			},
			wantErr: true,
		},
		{
			name: "qdrant backend requires vector size",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("SCHEMA_INDEX_BACKEND", "qdrant")
			},
			wantErr: true,
		},
		{
			name: "qdrant backend with vector size",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("SCHEMA_INDEX_BACKEND", "Qdrant")
				t.Setenv("QDRANT_VECTOR_SIZE", "1536")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.SchemaIndexBackend == BackendQdrant &&
					cfg.QdrantVectorSize == 1536 &&
					cfg.QdrantCollection == "schemas"
			},
		},
		{
			name: "unknown backend",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("SCHEMA_INDEX_BACKEND", "faiss")
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			setupEnv: func(t *testing.T) {
				setRequired(t)
				t.Setenv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Change to a temp directory without .env file to avoid loading it
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			_ = os.Chdir(tmpDir)
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	clearEnv(t)
	// godotenv does not override variables that are already present, even empty ones.
	for _, key := range []string{"LLM_API_KEY", "LLM_MODEL", "EMBEDDING_MODEL_NAME", "DATABASE_URL_TMS", "DATABASE_URL_AUDIT"} {
		_ = os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range []string{"LLM_API_KEY", "LLM_MODEL", "EMBEDDING_MODEL_NAME", "DATABASE_URL_TMS", "DATABASE_URL_AUDIT"} {
			_ = os.Unsetenv(key)
		}
	})

	env := "LLM_API_KEY=file-key\nLLM_MODEL=file-model\nEMBEDDING_MODEL_NAME=file-embed\n" +
		"DATABASE_URL_TMS=sqlserver://file-tms\nDATABASE_URL_AUDIT=sqlserver://file-audit\n"
	if err := os.WriteFile(".env", []byte(env), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMAPIKey != "file-key" {
		t.Errorf("Load() LLMAPIKey = %v, want file-key", cfg.LLMAPIKey)
	}
	if cfg.TMSDatabaseURL != "sqlserver://file-tms" {
		t.Errorf("Load() TMSDatabaseURL = %v, want sqlserver://file-tms", cfg.TMSDatabaseURL)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{name: "env var set", value: "set-value", defaultValue: "default", want: "set-value"},
		{name: "empty env var uses default", value: "", defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VAR", tt.value)
			got := getEnv("TEST_ENV_VAR", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", "TEST_ENV_VAR", tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("a, b,,c ,")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
