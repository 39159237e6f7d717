package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CRAG_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CRAG_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	return intOr("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// ServerURL is the base URL cragctl talks to.
func ServerURL() string {
	return stringOr("CRAG_SERVER_URL", fmt.Sprintf("http://localhost:%d", ServerPort()))
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMProvider returns the configured generation provider.
// Valid values: openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	return stringOr("LLM_PROVIDER", "openai")
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// LLMModel overrides the provider's default model when set.
func LLMModel() string {
	return os.Getenv("LLM_MODEL")
}

func LLMTemperature() float32 {
	return float32Or("LLM_TEMPERATURE", 0.5)
}

func LLMMaxTokens() int {
	return intOr("LLM_MAX_TOKENS", 400)
}

// GraderTemperature is used for grounding evaluation calls.
func GraderTemperature() float32 {
	return float32Or("GRADER_TEMPERATURE", 0.2)
}

func GraderMaxTokens() int {
	return intOr("GRADER_MAX_TOKENS", 300)
}

// EmbeddingProvider returns the configured embedding provider.
// Valid values: openai, mock
func EmbeddingProvider() string {
	return stringOr("EMBEDDING_PROVIDER", "openai")
}

func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// RetrieverProvider selects the document index.
// Valid values: pgvector, azure, mock
func RetrieverProvider() string {
	return stringOr("RETRIEVER_PROVIDER", "pgvector")
}

func AzureSearchEndpoint() string {
	return os.Getenv("AZURE_SEARCH_ENDPOINT")
}

func AzureSearchAPIKey() string {
	return os.Getenv("AZURE_SEARCH_API_KEY")
}

func AzureSearchIndex() string {
	return os.Getenv("AZURE_SEARCH_INDEX")
}

// ConversationBackend selects where thread history lives.
// Valid values: memory, postgres
func ConversationBackend() string {
	return stringOr("CONVERSATION_BACKEND", "memory")
}

// MemoryMaxThreads bounds the in-process conversation memory.
func MemoryMaxThreads() int {
	return intOr("MEMORY_MAX_THREADS", 1000)
}

// MemoryIdleTTL is how long a thread may stay untouched before the expirer
// drops it.
func MemoryIdleTTL() time.Duration {
	return durationOr("MEMORY_IDLE_TTL", 24*time.Hour)
}

func MemoryExpiryInterval() time.Duration {
	return durationOr("MEMORY_EXPIRY_INTERVAL", 10*time.Minute)
}

// RetrievalTopN is the number of evidence items fetched per query.
func RetrievalTopN() int {
	return intOr("RETRIEVAL_TOP_N", 5)
}

// MaxSources caps the sources returned after a corrective pass.
func MaxSources() int {
	return intOr("MAX_SOURCES", 10)
}

// CorrectionPasses is the number of evaluate-and-correct rounds per turn.
// Zero disables grounding evaluation.
func CorrectionPasses() int {
	n, err := strconv.Atoi(os.Getenv("CORRECTION_PASSES"))
	if err != nil || n < 0 {
		return 1
	}
	return n
}

// AnswerLanguage is the language the assistant is told to answer in.
func AnswerLanguage() string {
	return stringOr("ANSWER_LANGUAGE", "Brazilian Portuguese")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 10 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 10
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return intOr("RATE_LIMIT_BURST", 20)
}

// LogLevel returns the log level (debug, info, warn, error).
func LogLevel() string {
	return stringOr("LOG_LEVEL", "info")
}

func MigrationsPath() string {
	return stringOr("MIGRATIONS_PATH", "migrations")
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func float32Or(key string, def float32) float32 {
	f, err := strconv.ParseFloat(os.Getenv(key), 32)
	if err != nil || f < 0 {
		return def
	}
	return float32(f)
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
