// Command server starts the Ikigai assessment HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/berachah-academy/ikigai-api/internal/adapter/ai/gemini"
	"github.com/berachah-academy/ikigai-api/internal/adapter/ai/stub"
	httpserver "github.com/berachah-academy/ikigai-api/internal/adapter/httpserver"
	"github.com/berachah-academy/ikigai-api/internal/adapter/observability"
	"github.com/berachah-academy/ikigai-api/internal/adapter/repo/firebase"
	"github.com/berachah-academy/ikigai-api/internal/app"
	"github.com/berachah-academy/ikigai-api/internal/config"
	"github.com/berachah-academy/ikigai-api/internal/domain"
	"github.com/berachah-academy/ikigai-api/internal/questionbank"
	"github.com/berachah-academy/ikigai-api/internal/scoring"
	"github.com/berachah-academy/ikigai-api/internal/service/feedback"
	"github.com/berachah-academy/ikigai-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	alphabet := domain.DefaultAlphabet()
	bank := questionbank.MustLoad(cfg.QuestionsFile, alphabet)
	slog.Info("question bank loaded", slog.String("path", cfg.QuestionsFile), slog.Int("questions", bank.Size()))

	keys := map[domain.Element][]string{}
	for _, el := range domain.Elements() {
		keys[el] = bank.Keys(el)
	}
	rubric, err := scoring.NewRubric(alphabet, keys, scoring.DefaultWeights())
	if err != nil {
		slog.Error("rubric construction failed", slog.Any("error", err))
		os.Exit(1)
	}

	creds := buildCredentials(ctx, cfg)
	if len(creds) == 0 {
		if !cfg.IsDev() {
			slog.Error("no Gemini credentials configured")
			os.Exit(1)
		}
		// Dev fallback so the pipeline runs end to end without real keys.
		slog.Warn("no Gemini credentials configured; using stub provider")
		creds = []feedback.Credential{{Name: "stub", Provider: stub.New()}}
	}
	gen := feedback.NewGenerator(cfg.GeminiModel, feedback.Mode(cfg.FeedbackSchema), cfg.GenerateTimeout, creds...)

	var store domain.RecordStore
	if cfg.PersistEnabled() {
		store = firebase.New(cfg.FirebaseDBURL, cfg.FirebaseNode, firebase.Mode(cfg.PersistMode), cfg.PersistTimeout)
		slog.Info("record store configured", slog.String("node", cfg.FirebaseNode), slog.String("mode", cfg.PersistMode))
	} else {
		slog.Warn("FIREBASE_DB_URL not set; assessment records will not be persisted")
	}

	assess := usecase.NewAssessService(bank, rubric, gen, store, cfg.PersistTimeout)
	srv := httpserver.NewServer(cfg, assess, bank.Size(), len(creds))
	handler := app.BuildRouter(cfg, srv)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		slog.Info("server listening", slog.Int("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
	slog.Info("server stopped")
}

// buildCredentials constructs one Gemini client per configured key slot,
// preserving slot order for the fallback loop.
func buildCredentials(ctx context.Context, cfg config.Config) []feedback.Credential {
	var creds []feedback.Credential
	for i, key := range cfg.GeminiAPIKeys() {
		if key == "" {
			continue
		}
		name := fmt.Sprintf("key%d", i+1)
		cl, err := gemini.New(ctx, key, name)
		if err != nil {
			slog.Error("gemini client init failed", slog.String("credential", name), slog.Any("error", err))
			continue
		}
		creds = append(creds, feedback.Credential{Name: name, Provider: cl})
	}
	return creds
}
