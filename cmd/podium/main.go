// Command podium evaluates a child's recorded speech and prints the dual
// result: the raw report for adults and the age-tier presentation for the
// child.
//
// The audio input is raw 16-bit little-endian PCM (use ffmpeg to convert:
// ffmpeg -i rec.wav -f s16le -ac 1 -ar 16000 rec.pcm).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/observe"
	"github.com/podium-ed/podium/internal/pipeline"
	"github.com/podium-ed/podium/internal/store"
	"github.com/podium-ed/podium/pkg/asr/whisper"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (empty: built-in defaults)")
	audioPath := flag.String("audio", "", "path to the raw s16le PCM recording (required)")
	sampleRate := flag.Int("rate", 0, "sample rate of the recording in Hz (default: configured analysis rate)")
	channels := flag.Int("channels", 1, "channel count of the recording (1 or 2)")
	age := flag.Int("age", 0, "student age in years, 3-18 (required)")
	name := flag.String("name", "", "student name for the report")
	topic := flag.String("topic", "", "speech topic for the report")
	outPath := flag.String("out", "", "write the JSON result to this file instead of stdout")
	flag.Parse()

	if *audioPath == "" || *age == 0 {
		fmt.Fprintln(os.Stderr, "podium: -audio and -age are required")
		flag.Usage()
		return 2
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "podium: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	slog.Info("podium starting",
		"config", *configPath,
		"audio", *audioPath,
		"age", *age,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "podium"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	if addr := cfg.Server.MetricsListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics endpoint error", "err", err)
			}
		}()
		slog.Info("metrics endpoint listening", "addr", addr)
	}

	// ── Recognition engine ────────────────────────────────────────────────────
	if cfg.ASR.ModelPath == "" {
		fmt.Fprintln(os.Stderr, "podium: asr.model_path must point at a whisper.cpp model file")
		return 1
	}
	provider, err := whisper.New(cfg.ASR.ModelPath, whisper.WithLanguage(cfg.ASR.Language))
	if err != nil {
		slog.Error("failed to load recognition model", "err", err, "model", cfg.ASR.ModelPath)
		return 1
	}
	defer provider.Close()

	// ── Stores ────────────────────────────────────────────────────────────────
	var stores store.Multi
	if cfg.Storage.ReportFile != "" {
		stores = append(stores, store.NewFileStore(cfg.Storage.ReportFile))
	}
	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			slog.Error("failed to connect to postgres", "err", err)
			return 1
		}
		defer pool.Close()
		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("failed to migrate evaluations schema", "err", err)
			return 1
		}
		stores = append(stores, pg)
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	opts := []pipeline.Option{}
	if len(stores) > 0 {
		opts = append(opts, pipeline.WithStore(stores))
	}
	evaluator, err := pipeline.New(cfg, provider, opts...)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}

	pcm, err := os.ReadFile(*audioPath)
	if err != nil {
		slog.Error("failed to read audio", "err", err)
		return 1
	}

	result, err := evaluator.Evaluate(ctx, pipeline.Request{
		PCM:         pcm,
		SampleRate:  *sampleRate,
		Channels:    *channels,
		StudentName: *name,
		StudentAge:  *age,
		Topic:       *topic,
		AudioFile:   *audioPath,
	})
	if err != nil {
		slog.Error("evaluation failed", "err", err)
		return 1
	}

	// ── Output ────────────────────────────────────────────────────────────────
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("failed to encode result", "err", err)
		return 1
	}
	data = append(data, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			slog.Error("failed to write result", "err", err, "path", *outPath)
			return 1
		}
		slog.Info("result written", "path", *outPath, "overall", result.Report.Scores.Overall)
		return 0
	}
	if _, err := os.Stdout.Write(data); err != nil {
		slog.Error("failed to write result", "err", err)
		return 1
	}
	return 0
}

// newLogger builds a level-filtered text logger from the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
