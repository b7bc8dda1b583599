package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hoanghai1803/adcraft/internal/adcopy"
	"github.com/hoanghai1803/adcraft/internal/ai"
	"github.com/hoanghai1803/adcraft/internal/api"
	"github.com/hoanghai1803/adcraft/internal/api/handlers"
	"github.com/hoanghai1803/adcraft/internal/assistant"
	"github.com/hoanghai1803/adcraft/internal/config"
	"github.com/hoanghai1803/adcraft/internal/imagegen"
	"github.com/hoanghai1803/adcraft/internal/logger"
	"github.com/hoanghai1803/adcraft/internal/scraper"
	"github.com/hoanghai1803/adcraft/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(cfg.Log.Level))

	ctx := context.Background()

	// Prompt template and parser share the markers and limits.
	tmpl := adcopy.NewTemplate(adcopy.Limits{
		HeadlineMax: cfg.Limits.HeadlineMaxChars,
		BodyMax:     cfg.Limits.BodyMaxChars,
	})
	patterns, err := adcopy.CompilePatterns(cfg.AdCopy.BodyArtifactPatterns)
	if err != nil {
		slog.Error("invalid body artifact pattern", "error", err)
		os.Exit(1)
	}
	parser := adcopy.NewTemplateParser(tmpl, cfg.AdCopy.BodyArtifacts, patterns)

	// Completion providers. A provider that cannot be built reports
	// unavailable per action instead of stopping the server.
	generator := ai.NewRateLimited(ai.NewProviderOrUnavailable(ctx, ai.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
	}), cfg.AI.RequestsPerSecond)
	analyzer := ai.NewRateLimited(ai.NewProviderOrUnavailable(ctx, ai.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.AnalysisModel,
	}), cfg.AI.RequestsPerSecond)
	slog.Info("completion provider configured",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"analysis_model", cfg.AI.AnalysisModel,
	)

	// Image backend; translation of product names uses the analysis model.
	imageGen, err := imagegen.NewGenerator(imagegen.Config{
		Provider: cfg.Image.Provider,
		APIKey:   cfg.Image.APIKey,
		BaseURL:  cfg.Image.BaseURL,
		Model:    cfg.Image.Model,
		Width:    cfg.Image.Width,
		Height:   cfg.Image.Height,
	})
	if err != nil {
		slog.Error("failed to create image generator", "error", err)
		os.Exit(1)
	}

	svc := assistant.New(assistant.Deps{
		Generator: generator,
		Analyzer:  analyzer,
		Template:  tmpl,
		Parser:    parser,
		Fetcher:   scraper.NewFetcher(time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second, cfg.Limits.AnalysisMaxChars),
		Images:    imagegen.NewPipeline(imagegen.NewTranslator(analyzer), imageGen),
		Loader:    imagegen.NewLoader(),
		Store:     storage.NewStore(cfg.Output.Dir),
	})

	// Build router with all API routes and static file serving.
	router := api.NewRouter(svc, handlers.NewSessions())

	// Determine server address (localhost only for security).
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Auto-open browser after a short delay to let the server start.
	if cfg.Server.AutoOpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openBrowser("http://" + addr)
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://"+addr, "output_dir", cfg.Output.Dir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	// In-flight generations may wait on a slow model; give them time.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("shutdown complete")
}

// openBrowser opens the given URL in the user's default browser.
// It is a fire-and-forget operation; errors are silently ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
