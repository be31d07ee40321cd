package similarity

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
)

// Embedder maps a token to a fixed-dimension numeric vector. Callers depend
// only on this capability; the backing model is swappable.
type Embedder interface {
	Embed(token string) []float64
	Dimension() int
}

// embeddingDim matches the typical BERT embedding size.
const embeddingDim = 768

// MockEmbedder is a deterministic placeholder, not a trained model: each
// token gets a stable pseudo-random vector derived from the token itself,
// memoized on first use. Safe for concurrent use.
type MockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{vectors: make(map[string][]float64)}
}

func (m *MockEmbedder) Dimension() int { return embeddingDim }

func (m *MockEmbedder) Embed(token string) []float64 {
	token = strings.ToLower(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if vector, ok := m.vectors[token]; ok {
		return vector
	}

	// Seeding from the token hash keeps vectors identical across runs,
	// which the cache idempotence contract depends on.
	hasher := fnv.New64a()
	hasher.Write([]byte(token))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	vector := make([]float64, embeddingDim)
	for i := range vector {
		vector[i] = rng.Float64()*2 - 1
	}
	m.vectors[token] = vector
	return vector
}
