package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// EmbeddingsClient is a client for the embeddings API of OpenAI or Azure OpenAI.
type EmbeddingsClient struct {
	Model        string
	ExpectedSize int // Expected vector size for validation, 0 disables the check
	api          openai.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize is the expected vector size (QDRANT_VECTOR_SIZE when the Qdrant backend is used).
// All embeddings returned by EmbedTexts will be validated against this size when it is non-zero.
func NewEmbeddingsClient(opts Options, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		Model:        model,
		ExpectedSize: expectedSize,
		api:          openai.NewClient(opts.requestOptions()...),
	}
}

// EmbedTexts generates embeddings for the given texts.
// Returns a slice of float32 vectors, one per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          openai.EmbeddingModel(c.Model),
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	result := make([][]float32, len(texts))
	for i, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(texts) || result[idx] != nil {
			return nil, fmt.Errorf("embedding %d has invalid index %d", i, data.Index)
		}
		if c.ExpectedSize > 0 && len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", idx, len(data.Embedding), c.ExpectedSize)
		}
		if len(data.Embedding) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", idx)
		}

		// Convert []float64 to []float32
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[idx] = vec
	}

	return result, nil
}

// EmbedText embeds a single text. The schema index embeds one chunk per call.
func (c *EmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
