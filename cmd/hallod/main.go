package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hallod/internal/common/fsutil"
	"hallod/internal/config"
	"hallod/internal/generator"
	"hallod/internal/httpapi"
	"hallod/internal/media"
	"hallod/internal/weights"
	"hallod/internal/worker"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := flag.String("addr", envDefault("HALLOD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	configPath := flag.String("config", envDefault("HALLOD_CONFIG", ""), "Optional config file (.toml/.yaml/.json)")
	weightsDir := flag.String("weights-dir", envDefault("HALLOD_WEIGHTS_DIR", "~/hallo3/pretrained_models"), "Directory holding model weights")
	scratchDir := flag.String("scratch-dir", envDefault("HALLOD_SCRATCH_DIR", ""), "Directory for per-job temp media (default os temp)")
	runnerScript := flag.String("runner-script", envDefault("HALLOD_RUNNER_SCRIPT", ""), "Path to the generation runner script")
	runnerDir := flag.String("runner-dir", envDefault("HALLOD_RUNNER_DIR", ""), "Working directory for the runner")
	python := flag.String("python", envDefault("HALLOD_PYTHON", "python3"), "Python interpreter for the runner")
	eagerWeights := flag.Bool("eager-weights", os.Getenv("HALLOD_EAGER_WEIGHTS") == "1", "Download weights at startup instead of on first job")
	execTimeoutSec := flag.Int("exec-timeout", 0, "Per-job execution timeout in seconds (0=default)")
	corsOrigins := flag.String("cors-origins", envDefault("HALLOD_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins (empty disables CORS)")
	jsonLog := flag.Bool("log-json", os.Getenv("HALLOD_LOG_JSON") == "1", "Log JSON instead of console format")
	flag.Parse()

	var logger zerolog.Logger
	if *jsonLog {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	cfg := config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
	}
	// Flags and their env defaults fill whatever the config file left unset.
	if cfg.Addr == "" {
		cfg.Addr = *addr
	}
	if cfg.WeightsDir == "" {
		cfg.WeightsDir = *weightsDir
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = *scratchDir
	}
	if cfg.RunnerScript == "" {
		cfg.RunnerScript = *runnerScript
	}
	if cfg.RunnerDir == "" {
		cfg.RunnerDir = *runnerDir
	}
	if cfg.Python == "" {
		cfg.Python = *python
	}
	if *execTimeoutSec > 0 {
		cfg.ExecTimeoutSeconds = *execTimeoutSec
	}
	if *eagerWeights {
		cfg.EagerWeights = true
	}

	wdir, err := fsutil.ExpandHome(cfg.WeightsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("resolve weights dir")
	}
	if err := os.MkdirAll(wdir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", wdir).Msg("create weights dir")
	}

	dl := &weights.Downloader{
		Dir:     wdir,
		BaseURL: cfg.HubURL,
		Log:     logger.With().Str("component", "weights").Logger(),
	}

	// The runner spawns lazily on the first job, so a bad script path would
	// otherwise only surface minutes into the first request.
	if cfg.RunnerScript != "" && !fsutil.PathExists(cfg.RunnerScript) {
		logger.Warn().Str("script", cfg.RunnerScript).Msg("runner script not found")
	}

	gen := generator.NewSubprocess(generator.Config{
		Python:  cfg.Python,
		Script:  cfg.RunnerScript,
		WorkDir: cfg.RunnerDir,
	})

	resampler := media.NewResampler()
	resampler.FFmpegPath = cfg.FFmpegPath
	resampler.Rate = cfg.SampleRate

	w := worker.New(worker.Config{
		Generator:     gen,
		Weights:       dl,
		Resampler:     resampler,
		ScratchDir:    cfg.ScratchDir,
		DefaultPrompt: cfg.DefaultPrompt,
		ExecTimeout:   time.Duration(cfg.ExecTimeoutSeconds) * time.Second,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitSeconds) * time.Second,
		Log:           logger.With().Str("component", "worker").Logger(),
	})

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Content-Type", "Authorization"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	if cfg.EagerWeights {
		logger.Info().Str("dir", wdir).Msg("downloading weights before serving")
		if err := dl.Ensure(baseCtx); err != nil {
			logger.Fatal().Err(err).Msg("weight download failed")
		}
	}

	mux := httpapi.NewMux(w)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("weights", wdir).Msg("hallod listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	if err := w.Close(); err != nil {
		logger.Warn().Err(err).Msg("generator shutdown error")
	}
}
