package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"LLM_PROVIDER", "RETRIEVER_PROVIDER", "CORRECTION_PASSES", "RETRIEVAL_TOP_N", "MAX_SOURCES", "MEMORY_IDLE_TTL", "SERVER_PORT"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, "openai", LLMProvider())
	assert.Equal(t, "pgvector", RetrieverProvider())
	assert.Equal(t, 1, CorrectionPasses())
	assert.Equal(t, 5, RetrievalTopN())
	assert.Equal(t, 10, MaxSources())
	assert.Equal(t, 24*time.Hour, MemoryIdleTTL())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, float32(0.2), GraderTemperature())
}

func TestOverrides(t *testing.T) {
	t.Setenv("CORRECTION_PASSES", "0")
	t.Setenv("RETRIEVAL_TOP_N", "8")
	t.Setenv("MEMORY_IDLE_TTL", "90m")
	t.Setenv("LLM_TEMPERATURE", "0.9")

	assert.Equal(t, 0, CorrectionPasses())
	assert.Equal(t, 8, RetrievalTopN())
	assert.Equal(t, 90*time.Minute, MemoryIdleTTL())
	assert.InDelta(t, 0.9, LLMTemperature(), 0.0001)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CORRECTION_PASSES", "-2")
	t.Setenv("RETRIEVAL_TOP_N", "abc")
	t.Setenv("MEMORY_EXPIRY_INTERVAL", "soon")

	assert.Equal(t, 1, CorrectionPasses())
	assert.Equal(t, 5, RetrievalTopN())
	assert.Equal(t, 10*time.Minute, MemoryExpiryInterval())
}

func TestLLMAPIKey_FollowsProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("ANTHROPIC_API_KEY", "an")

	t.Setenv("LLM_PROVIDER", "anthropic")
	assert.Equal(t, "an", LLMAPIKey())

	t.Setenv("LLM_PROVIDER", "mock")
	assert.Equal(t, "", LLMAPIKey())

	t.Setenv("LLM_PROVIDER", "")
	assert.Equal(t, "oa", LLMAPIKey())
}

func TestLoad_ReadsEnvAndSecret(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CRAG_TEST_PLAIN=plain\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("CRAG_TEST_SECRET=hidden\n"), 0o600))

	t.Setenv("CRAG_ENV", envFile)
	t.Cleanup(func() {
		_ = os.Unsetenv("CRAG_TEST_PLAIN")
		_ = os.Unsetenv("CRAG_TEST_SECRET")
	})

	require.NoError(t, Load())
	assert.Equal(t, "plain", os.Getenv("CRAG_TEST_PLAIN"))
	assert.Equal(t, "hidden", os.Getenv("CRAG_TEST_SECRET"))
}

func TestServerURL(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CRAG_SERVER_URL", "")
	assert.Equal(t, "http://localhost:9090", ServerURL())

	t.Setenv("CRAG_SERVER_URL", "https://crag.internal.example")
	assert.Equal(t, "https://crag.internal.example", ServerURL())
}
