package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// MockClient produces deterministic bag-of-words embeddings, so texts that
// share words land close together without calling an API.
type MockClient struct {
	Dimensions int
}

func NewMockClient() *MockClient {
	return &MockClient{Dimensions: Dimensions}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, c.Dimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%uint32(c.Dimensions)] += 1
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}
