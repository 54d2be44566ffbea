// Package proxy implements the analysis service behind the analyzed daemon:
// it prefixes prompts with a context preamble and forwards them to a local
// Ollama server.
package proxy

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"aictl/internal/ollama"
	"aictl/pkg/types"
)

// Preambles steer the model per analysis context. Unknown contexts get the
// generic preamble.
var preambles = map[string]string{
	"url-analysis":          "You are a senior DevOps engineer reviewing URL connectivity diagnostics. Be specific and actionable.",
	"health-analysis":       "You are a senior DevOps engineer reviewing Kubernetes service health. Be specific and actionable.",
	"architecture-analysis": "You are a senior DevOps engineer reviewing Kubernetes architecture. Be specific and actionable.",
	"deployment-analysis":   "You are a senior DevOps engineer reviewing a deployment readiness check. Be specific and actionable.",
}

const genericPreamble = "You are a helpful DevOps assistant. Be concise and practical."

// readyTimeout bounds the upstream ping behind /readyz.
const readyTimeout = 2 * time.Second

// Service forwards analysis prompts to an Ollama client. It holds no durable
// state and never retries upstream calls.
type Service struct {
	client       *ollama.Client
	defaultModel string
	log          zerolog.Logger
}

// New wires a Service to an Ollama client. defaultModel is used when a
// request does not name one.
func New(client *ollama.Client, defaultModel string, log zerolog.Logger) *Service {
	return &Service{client: client, defaultModel: defaultModel, log: log}
}

// Analyze forwards one prompt to the model and returns the buffered reply.
// Prompt validation is the transport layer's job; errors returned here are
// the ollama package's typed errors.
func (s *Service) Analyze(ctx context.Context, req types.AnalyzeRequest) (types.AnalyzeResponse, error) {
	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	preamble, ok := preambles[req.Context]
	if !ok {
		preamble = genericPreamble
	}

	start := time.Now()
	gresp, err := s.client.Generate(ctx, types.GenerateRequest{
		Model:  model,
		Prompt: preamble + "\n\n" + req.Prompt,
	})
	if err != nil {
		return types.AnalyzeResponse{}, err
	}
	s.log.Debug().Str("model", model).Str("context", req.Context).
		Dur("dur", time.Since(start)).Msg("analysis complete")
	return types.AnalyzeResponse{
		Response:   gresp.Response,
		Model:      model,
		Context:    req.Context,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// ListModels proxies the upstream model listing.
func (s *Service) ListModels(ctx context.Context) ([]types.OllamaModel, error) {
	return s.client.ListModels(ctx)
}

// Ready reports whether the upstream Ollama server answers.
func (s *Service) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	_, err := s.client.ListModels(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("upstream not ready")
	}
	return err == nil
}

// Info describes the runtime environment from env vars set by the deployment.
func (s *Service) Info() types.InfoResponse {
	hostname, _ := os.Hostname()
	return types.InfoResponse{
		AppName:     envOr("APP_NAME", "analyzed"),
		Environment: envOr("ENVIRONMENT", "development"),
		Region:      envOr("REGION", "local"),
		Cluster:     envOr("CLUSTER", "none"),
		ContainerID: envOr("HOSTNAME", hostname),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
