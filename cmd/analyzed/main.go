package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"aictl/internal/config"
	"aictl/internal/httpapi"
	"aictl/internal/ollama"
	"aictl/internal/proxy"
)

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// Flags with environment variable defaults
	addr := flag.String("addr", envStr("ANALYZED_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	ollamaURL := flag.String("ollama-url", envStr("ANALYZED_OLLAMA_URL", ollama.DefaultBaseURL), "Ollama server base URL")
	defaultModel := flag.String("default-model", envStr("ANALYZED_MODEL", "llama3.1"), "Default model when request omits one")
	requestTimeout := flag.Int("request-timeout", envInt("ANALYZED_REQUEST_TIMEOUT", 120), "Upstream generate timeout in seconds")
	configPath := flag.String("config", envStr("ANALYZED_CONFIG", ""), "Optional config file (.yaml/.json/.toml)")
	corsEnabled := flag.Bool("cors", false, "Enable CORS middleware")
	corsOrigins := flag.String("cors-origins", "*", "Comma-separated allowed CORS origins")
	maxBody := flag.Int64("max-body-bytes", 0, "Max JSON request body size (0 = 1MiB default)")
	logLevel := flag.String("log-level", envStr("ANALYZED_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("app", "analyzed").Logger()

	// Config file values fill in anything the flags left at defaults.
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		if cfg.Addr != "" {
			*addr = cfg.Addr
		}
		if cfg.OllamaURL != "" {
			*ollamaURL = cfg.OllamaURL
		}
		if cfg.DefaultModel != "" {
			*defaultModel = cfg.DefaultModel
		}
		if cfg.RequestTimeoutSec > 0 {
			*requestTimeout = cfg.RequestTimeoutSec
		}
		if cfg.Environment != "" {
			os.Setenv("ENVIRONMENT", cfg.Environment)
		}
		if cfg.CORSEnabled {
			*corsEnabled = true
			if len(cfg.CORSOrigins) > 0 {
				*corsOrigins = strings.Join(cfg.CORSOrigins, ",")
			}
		}
	}

	client := ollama.New(*ollamaURL, time.Duration(*requestTimeout)*time.Second)
	svc := proxy.New(client, *defaultModel, logger)

	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(*maxBody)
	httpapi.SetAnalyzeTimeoutSeconds(int64(*requestTimeout))
	httpapi.SetCORSOptions(*corsEnabled,
		strings.Split(*corsOrigins, ","),
		[]string{"GET", "POST", "OPTIONS"},
		[]string{"Accept", "Content-Type", "X-Log-Level"},
	)

	// Base context canceled on shutdown so in-flight analyses stop too.
	baseCtx, stopBase := context.WithCancel(context.Background())
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(svc)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", *addr).Str("ollama", *ollamaURL).Str("model", *defaultModel).Msg("analyzed listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	stopBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
