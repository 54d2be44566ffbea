package types

// AnalyzeRequest is the payload accepted by POST /api/analyze on the proxy.
type AnalyzeRequest struct {
	// Required prompt text describing what should be analyzed.
	Prompt string `json:"prompt"`
	// Analysis context, e.g. "url-analysis" or "health-analysis".
	// Selects the preamble prepended before forwarding to the model.
	Context string `json:"context,omitempty"`
	// Optional model override; the daemon default is used when empty.
	Model string `json:"model,omitempty"`
}

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	Response   string `json:"response"`
	Model      string `json:"model"`
	Context    string `json:"context,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// ModelsResponse wraps the proxied model listing for GET /api/models.
type ModelsResponse struct {
	Models []OllamaModel `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// HealthResponse is the load-balancer health check body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse describes the runtime environment, served by GET /info.
type InfoResponse struct {
	AppName     string `json:"app_name"`
	Environment string `json:"environment"`
	Region      string `json:"region"`
	Cluster     string `json:"cluster"`
	ContainerID string `json:"container_id"`
}
