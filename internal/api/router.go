package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/crag/internal/api/handlers"
	mw "github.com/Harshitk-cp/crag/internal/api/middleware"
	"github.com/Harshitk-cp/crag/internal/buildconfig"
	"github.com/Harshitk-cp/crag/internal/config"
	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/embedding"
	"github.com/Harshitk-cp/crag/internal/llm"
	"github.com/Harshitk-cp/crag/internal/retrieval"
	"github.com/Harshitk-cp/crag/internal/service"
	"github.com/Harshitk-cp/crag/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services are the answering flows and stores behind the HTTP surface.
type Services struct {
	Corrective    *service.CorrectiveService
	RAG           *service.RAGService
	Documents     *service.DocumentService // nil unless the index is writable
	Conversations domain.ConversationStore
	Expirer       *service.ExpirerService
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Expirer   *service.ExpirerService
	startTime time.Time
	counters  mw.Counters
}

// NewApp wires the configured providers into the services and the router.
// db may be nil when neither the retriever nor the conversation backend
// needs Postgres.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	svcs, err := NewServices(db, logger)
	if err != nil {
		return nil, err
	}
	return NewAppWithServices(db, svcs, logger), nil
}

// NewServices builds the services from environment configuration.
func NewServices(db *pgxpool.Pool, logger *zap.Logger) (*Services, error) {
	llmProvider := config.LLMProvider()
	llmClient, err := llm.NewClient(llmProvider, config.LLMAPIKey(), config.LLMModel())
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	logger.Info("LLM client initialized", zap.String("provider", llmProvider))

	// Conversation memory
	var conversations domain.ConversationStore
	switch backend := config.ConversationBackend(); backend {
	case "memory":
		conversations = service.NewConversationMemory(config.MemoryMaxThreads())
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("CONVERSATION_BACKEND=postgres requires DATABASE_URL")
		}
		conversations = store.NewConversationStore(db)
	default:
		return nil, fmt.Errorf("unknown conversation backend: %s (valid options: memory, postgres)", backend)
	}

	// Retriever, plus the writable index when it is ours
	retrieverProvider := config.RetrieverProvider()
	opts := retrieval.Options{
		Provider:      retrieverProvider,
		AzureEndpoint: config.AzureSearchEndpoint(),
		AzureIndex:    config.AzureSearchIndex(),
		AzureAPIKey:   config.AzureSearchAPIKey(),
	}
	var documents *service.DocumentService
	if retrieverProvider == retrieval.ProviderPGVector {
		if db == nil {
			return nil, fmt.Errorf("RETRIEVER_PROVIDER=pgvector requires DATABASE_URL")
		}
		embeddingProvider := config.EmbeddingProvider()
		embeddingClient, err := embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey())
		if err != nil {
			return nil, fmt.Errorf("embedding client: %w", err)
		}
		logger.Info("Embedding client initialized", zap.String("provider", embeddingProvider))

		docStore := store.NewDocumentStore(db)
		opts.Embedder = embeddingClient
		opts.Documents = docStore
		documents = service.NewDocumentService(embeddingClient, docStore, logger)
	}
	retriever, err := retrieval.New(opts)
	if err != nil {
		return nil, fmt.Errorf("retriever: %w", err)
	}
	logger.Info("Retriever initialized", zap.String("provider", retrieverProvider))

	cfg := service.AnswerConfig{
		TopN:             config.RetrievalTopN(),
		MaxSources:       config.MaxSources(),
		CorrectionPasses: config.CorrectionPasses(),
		Language:         config.AnswerLanguage(),
		Select:           domain.DefaultSelectFields,
		Answer: domain.GenerateOpts{
			Temperature: config.LLMTemperature(),
			MaxTokens:   config.LLMMaxTokens(),
		},
	}
	graderOpts := domain.GenerateOpts{
		Temperature: config.GraderTemperature(),
		MaxTokens:   config.GraderMaxTokens(),
	}

	evaluator := service.NewGroundingEvaluator(llmClient, graderOpts, logger)
	expirer := service.NewExpirerService(conversations, config.MemoryIdleTTL(), logger)
	expirer.SetInterval(config.MemoryExpiryInterval())

	return &Services{
		Corrective:    service.NewCorrectiveService(retriever, llmClient, evaluator, conversations, cfg, logger),
		RAG:           service.NewRAGService(retriever, llmClient, conversations, cfg, logger),
		Documents:     documents,
		Conversations: conversations,
		Expirer:       expirer,
	}, nil
}

// NewAppWithServices builds the router around already constructed services.
func NewAppWithServices(db *pgxpool.Pool, svcs *Services, logger *zap.Logger) *App {
	chatHandler := handlers.NewChatHandler(svcs.Corrective, svcs.RAG)
	threadHandler := handlers.NewThreadHandler(svcs.Conversations)
	documentHandler := handlers.NewDocumentHandler(svcs.Documents)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Expirer:   svcs.Expirer,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.counters)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat/corrective", chatHandler.Corrective)
		r.Post("/chat", chatHandler.Chat)
		r.Post("/ask", chatHandler.Ask)

		r.Route("/threads/{id}", func(r chi.Router) {
			r.Get("/messages", threadHandler.Messages)
			r.Delete("/", threadHandler.Delete)
		})

		r.Post("/documents", documentHandler.Create)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":  uptime.Seconds(),
			"uptime_human":    uptime.Round(time.Second).String(),
			"request_count":   app.counters.Requests.Load(),
			"client_errors":   app.counters.ClientErrors.Load(),
			"server_errors":   app.counters.ServerErrors.Load(),
			"upstream_errors": app.counters.UpstreamErrors.Load(),
			"goroutines":      runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.DocumentStore     = (*store.DocumentStore)(nil)
	_ domain.ConversationStore = (*store.ConversationStore)(nil)
	_ domain.ConversationStore = (*service.ConversationMemory)(nil)
	_ domain.Retriever         = (*retrieval.VectorRetriever)(nil)
	_ domain.Retriever         = (*retrieval.AzureSearchClient)(nil)
	_ domain.Retriever         = (*retrieval.MockRetriever)(nil)
	_ domain.EmbeddingClient   = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient   = (*embedding.MockClient)(nil)
	_ domain.LLMClient         = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient         = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient         = (*llm.GeminiClient)(nil)
	_ domain.LLMClient         = (*llm.CerebrasClient)(nil)
	_ domain.LLMClient         = (*llm.MockClient)(nil)
	_ service.Evaluator        = (*service.GroundingEvaluator)(nil)
)
