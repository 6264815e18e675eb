package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics: embedding, LLM, web search, retrieval.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sathi",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "purpose", "status"}, // purpose: "chat" / "translation"
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sathi",
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "purpose"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "llm_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"model", "type"}, // type: "prompt" / "completion"
	)

	WebSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "websearch_requests_total",
			Help:      "Total number of live web search requests",
		},
		[]string{"status"},
	)

	RetrievalResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sathi",
			Name:      "retrieval_results_total",
			Help:      "Document context lookups by outcome",
		},
		[]string{"outcome"}, // "retrieved" / "empty" / "failed"
	)

	PromptTokensEstimate = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sathi",
			Name:      "prompt_tokens_estimate",
			Help:      "Estimated token count of composed prompts",
			Buckets:   []float64{256, 512, 1024, 2048, 4096, 8192, 16384},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline Prometheus metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(WebSearchRequestsTotal)
	prometheus.MustRegister(RetrievalResultsTotal)
	prometheus.MustRegister(PromptTokensEstimate)
	pipelineMetricsRegistered = true
}
