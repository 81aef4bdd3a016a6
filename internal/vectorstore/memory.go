package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"tmsbot/internal/contextutil"
)

// MemoryStore implements VectorStore in process memory.
// Search is an exact scan; equal scores keep insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Point
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Point)}
}

// Upsert inserts or updates points in the collection. A point whose ID already
// exists keeps its position.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.collections[collection]
	for _, point := range points {
		if len(point.Vec) == 0 {
			return fmt.Errorf("point %q has an empty vector", point.ID)
		}
		if len(existing) > 0 && len(existing[0].Vec) != len(point.Vec) {
			return fmt.Errorf("point %q has dimension %d, collection has %d", point.ID, len(point.Vec), len(existing[0].Vec))
		}

		stored := Point{ID: point.ID, Vec: append([]float32(nil), point.Vec...), Meta: point.Meta}
		replaced := false
		for i := range existing {
			if existing[i].ID == point.ID {
				existing[i] = stored
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, stored)
		}
	}
	s.collections[collection] = existing

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search performs an exact cosine similarity scan over the collection.
func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.collections[collection]
	if len(points) == 0 {
		return []SearchResult{}, nil
	}
	if len(points[0].Vec) != len(query) {
		return nil, fmt.Errorf("query has dimension %d, collection has %d", len(query), len(points[0].Vec))
	}

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(points))
	for i, point := range points {
		scores[i] = scored{pos: i, score: CosineSimilarity(query, point.Vec)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	n := min(k, len(scores))
	results := make([]SearchResult, 0, n)
	for _, sc := range scores[:n] {
		point := points[sc.pos]
		results = append(results, SearchResult{
			PointID: point.ID,
			Score:   float32(sc.score),
			Meta:    point.Meta,
		})
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Count returns the number of points in the collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// CosineSimilarity returns dot(a,b)/(|a|*|b|), or 0 when either vector has zero norm.
// The vectors must have the same length.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
