package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/vectorstore"
)

// ChunkSeparator joins retrieved chunks in the text handed to the SQL generator.
const ChunkSeparator = "\n---\n"

var (
	// ErrAlreadyLoaded is returned by Load when the index already holds a document.
	ErrAlreadyLoaded = errors.New("schema index already loaded")
	// ErrNotLoaded is returned by retrieval before a successful Load.
	ErrNotLoaded = errors.New("schema index not loaded")
	// ErrNoChunks is returned when the document contains no non-empty chunk.
	ErrNoChunks = errors.New("schema document has no chunks")
)

// pointNamespace scopes deterministic vector point ids.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tmsbot/schema-index"))

// Embedder embeds a single text into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Index holds the schema descriptions and answers retrieval queries over them.
// It is written once by Load and read concurrently afterwards.
type Index struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string

	mu     sync.RWMutex
	chunks []string
	loaded bool
}

// NewIndex creates an empty index whose vectors live in collection of store.
func NewIndex(embedder Embedder, store vectorstore.VectorStore, collection string) *Index {
	return &Index{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// SplitChunks splits source on delimiter, trims each piece and drops empty ones.
func SplitChunks(source, delimiter string) []string {
	pieces := strings.Split(source, delimiter)
	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

// LoadFile reads the schema document at path and loads it.
func (x *Index) LoadFile(ctx context.Context, path, delimiter string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema document: %w", err)
	}
	return x.Load(ctx, string(data), delimiter)
}

// Load splits source into chunks and embeds each one. Either every chunk is
// embedded and stored, or the index stays empty.
func (x *Index) Load(ctx context.Context, source, delimiter string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if delimiter == "" {
		return fmt.Errorf("delimiter cannot be empty")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.loaded {
		return ErrAlreadyLoaded
	}

	chunks := SplitChunks(source, delimiter)
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	points := make([]vectorstore.Point, 0, len(chunks))
	dim := 0
	for i, chunk := range chunks {
		vec, err := x.embedder.EmbedText(ctx, chunk)
		if err != nil {
			logger.ErrorContext(ctx, "failed to embed schema chunk", "chunk_index", i, "error", err)
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		if len(vec) == 0 {
			return fmt.Errorf("embedding for chunk %d is empty", i)
		}
		if i == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return fmt.Errorf("embedding for chunk %d has dimension %d, expected %d", i, len(vec), dim)
		}

		points = append(points, vectorstore.Point{
			ID:   pointID(i),
			Vec:  vec,
			Meta: map[string]any{"chunk_index": i},
		})
	}

	if err := x.store.Upsert(ctx, x.collection, points); err != nil {
		return fmt.Errorf("failed to store schema vectors: %w", err)
	}

	x.chunks = chunks
	x.loaded = true

	logger.InfoContext(ctx, "schema index loaded", "chunks", len(chunks), "dimension", dim)
	return nil
}

// RetrieveTopK returns the k chunks most similar to question, best first,
// joined with ChunkSeparator.
func (x *Index) RetrieveTopK(ctx context.Context, question string, k int) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return "", fmt.Errorf("k must be greater than 0, got %d", k)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if !x.loaded {
		return "", ErrNotLoaded
	}

	vec, err := x.embedder.EmbedText(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := x.store.Search(ctx, x.collection, vec, k)
	if err != nil {
		return "", fmt.Errorf("failed to search schema vectors: %w", err)
	}

	selected := make([]string, 0, len(results))
	for _, result := range results {
		idx, ok := chunkIndex(result.Meta)
		if !ok || idx < 0 || idx >= len(x.chunks) {
			return "", fmt.Errorf("search result %q has no valid chunk index", result.PointID)
		}
		selected = append(selected, x.chunks[idx])
	}

	logger.DebugContext(ctx, "schemas retrieved by similarity", "k", k, "selected", len(selected))
	return strings.Join(selected, ChunkSeparator), nil
}

// RetrieveByNames returns every chunk containing any of names as a literal
// substring, in load order, each chunk at most once.
func (x *Index) RetrieveByNames(ctx context.Context, names []string) string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	selected := make([]string, 0, len(names))
	for _, chunk := range x.chunks {
		for _, name := range names {
			if name != "" && strings.Contains(chunk, name) {
				selected = append(selected, chunk)
				break
			}
		}
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "schemas retrieved by name", "names", names, "selected", len(selected))
	return strings.Join(selected, ChunkSeparator)
}

// Loaded reports whether Load has completed successfully.
func (x *Index) Loaded() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.loaded
}

// Len returns the number of loaded chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

func pointID(chunkIdx int) string {
	return uuid.NewSHA1(pointNamespace, fmt.Appendf(nil, "chunk-%d", chunkIdx)).String()
}

// chunkIndex reads the chunk position back from point metadata. Qdrant returns
// integers as int64.
func chunkIndex(meta map[string]any) (int, bool) {
	switch v := meta["chunk_index"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
