// Demodayd is the hackathon submission grading daemon.
//
// It exposes an HTTP API that accepts startup submissions (name, GitHub
// repository, presentation summary), grades them for novelty, tech stack
// and pitch quality, and persists the results in SQLite.
//
// Configuration is loaded from an optional YAML file and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start with environment configuration
//	OPENAI_API_KEY=... SEARCH_API_KEY=... demodayd
//
//	# Start with a config file
//	demodayd -config /etc/demoday/config.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/config"
	"github.com/fyrsmithlabs/demoday/internal/githubapi"
	"github.com/fyrsmithlabs/demoday/internal/grader"
	"github.com/fyrsmithlabs/demoday/internal/keywords"
	"github.com/fyrsmithlabs/demoday/internal/llm"
	"github.com/fyrsmithlabs/demoday/internal/logging"
	"github.com/fyrsmithlabs/demoday/internal/novelty"
	"github.com/fyrsmithlabs/demoday/internal/server"
	"github.com/fyrsmithlabs/demoday/internal/store"
	"github.com/fyrsmithlabs/demoday/internal/websearch"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("demodayd\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// run wires the grading pipeline and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting demodayd",
		zap.String("version", version),
		zap.String("commit", gitCommit))

	completer, err := llm.NewClient(llm.Config{
		APIKey:            cfg.OpenAI.APIKey.Value(),
		Model:             cfg.OpenAI.Model,
		BaseURL:           cfg.OpenAI.BaseURL,
		RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		RequestTimeout:    cfg.OpenAI.RequestTimeout.Duration(),
	})
	if err != nil {
		return fmt.Errorf("initializing text-generation client: %w", err)
	}

	github := githubapi.NewClient(ctx, cfg.GitHub.Token.Value(), cfg.GitHub.RequestTimeout.Duration(), logger)

	web, err := websearch.NewClient(websearch.Config{
		APIKey:   cfg.Search.APIKey.Value(),
		Endpoint: cfg.Search.Endpoint,
		Timeout:  cfg.Search.RequestTimeout.Duration(),
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing web search client: %w", err)
	}

	extractor := keywords.NewExtractor(completer, logger)
	noveltyEval := novelty.NewEvaluator(completer, github, web, extractor, logger)
	repoEval := grader.NewRepoEvaluator(completer, github, logger)
	pitchEval := grader.NewPitchEvaluator(completer, logger)
	grading := grader.NewService(noveltyEval, repoEval, pitchEval, logger)

	submissions, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return fmt.Errorf("opening submission store: %w", err)
	}
	defer submissions.Close()

	srv, err := server.NewServer(grading, submissions, logger, &server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("initializing http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return err
	}

	// Drain the server goroutine.
	select {
	case <-errCh:
	case <-time.After(time.Second):
	}

	return nil
}
