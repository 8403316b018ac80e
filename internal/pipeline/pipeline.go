// Package pipeline orchestrates one complete evaluation: decode the audio,
// run feature extraction and transcription concurrently, score, assemble the
// report, and render the age-tier presentation.
//
// Stage behaviour on failure is deliberately asymmetric. A decode failure or
// a transcription engine failure aborts the evaluation; a feature-extraction
// failure degrades to the empty feature sentinel and the audio metrics score
// neutrally. The child always gets a result when their words made it through.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/features"
	"github.com/podium-ed/podium/internal/metrics"
	"github.com/podium-ed/podium/internal/observe"
	"github.com/podium-ed/podium/internal/present"
	"github.com/podium-ed/podium/internal/report"
	"github.com/podium-ed/podium/internal/store"
	"github.com/podium-ed/podium/pkg/asr"
	"github.com/podium-ed/podium/pkg/audio"
)

// Sentinel errors returned by [Evaluator.Evaluate].
var (
	// ErrNoAudio means the request carried no PCM data.
	ErrNoAudio = errors.New("pipeline: no audio data")

	// ErrInvalidAge means the student age is outside the supported 3-18 range.
	ErrInvalidAge = errors.New("pipeline: student age must be between 3 and 18")

	// ErrDecode wraps PCM decode failures.
	ErrDecode = errors.New("pipeline: decode audio")

	// ErrTranscribe wraps recognition engine failures.
	ErrTranscribe = errors.New("pipeline: transcribe audio")
)

// Request describes one recording to evaluate.
type Request struct {
	// PCM is raw 16-bit little-endian PCM audio.
	PCM []byte

	// SampleRate is the PCM sample rate in Hz. Zero means the configured
	// analysis rate.
	SampleRate int

	// Channels is 1 or 2. Zero means mono.
	Channels int

	StudentName string
	StudentAge  int
	Topic       string

	// AudioFile is the source path recorded in report metadata, if any.
	AudioFile string
}

// Result is the dual pipeline output: the raw report for adults and the
// age-tier presentation for the child.
type Result struct {
	Report       report.Raw           `json:"report"`
	Presentation present.Presentation `json:"presentation"`
}

// Evaluator runs the evaluation pipeline. Construct with [New]; safe for
// concurrent use.
type Evaluator struct {
	cfg       *config.Config
	provider  asr.Provider
	extractor *features.Extractor
	scorer    *metrics.Evaluator
	presenter *present.Presenter
	stores    store.Store
	metrics   *observe.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// Option is a functional option for configuring an Evaluator.
type Option func(*Evaluator)

// WithStore adds a persistence backend. Completed evaluations are saved
// best-effort; a store failure is logged and counted but never fails the
// evaluation.
func WithStore(s store.Store) Option {
	return func(e *Evaluator) { e.stores = s }
}

// WithMetrics sets the observability instruments. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Evaluator) { e.metrics = m }
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPresenter replaces the presenter, letting tests inject one with a
// seeded random source.
func WithPresenter(p *present.Presenter) Option {
	return func(e *Evaluator) {
		if p != nil {
			e.presenter = p
		}
	}
}

// withClock overrides the metadata timestamp source in tests.
func withClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// New builds an Evaluator from configuration and a recognition provider.
// Fails when the configured badge rules do not compile.
func New(cfg *config.Config, provider asr.Provider, opts ...Option) (*Evaluator, error) {
	presenter, err := present.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	e := &Evaluator{
		cfg:       cfg,
		provider:  provider,
		extractor: features.NewExtractor(cfg.Scoring.Audio),
		scorer:    metrics.NewEvaluator(cfg.Scoring),
		presenter: presenter,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e, nil
}

// Evaluate runs the full pipeline for one recording.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Result, error) {
	if req.StudentAge < 3 || req.StudentAge > 18 {
		return Result{}, ErrInvalidAge
	}
	if len(req.PCM) == 0 {
		return Result{}, ErrNoAudio
	}

	e.metrics.ActiveEvaluations.Add(ctx, 1)
	defer e.metrics.ActiveEvaluations.Add(ctx, -1)
	pipelineStart := time.Now()

	group := config.GroupForAge(req.StudentAge)

	// Decode. Failures here are fatal: without intelligible PCM neither
	// branch can run.
	decodeStart := time.Now()
	srcRate := req.SampleRate
	if srcRate == 0 {
		srcRate = e.cfg.Scoring.Audio.SampleRate
	}
	channels := req.Channels
	if channels == 0 {
		channels = 1
	}
	samples, err := audio.Normalize(req.PCM, srcRate, channels, e.cfg.Scoring.Audio.SampleRate)
	if err != nil {
		e.metrics.RecordStageError(ctx, "decode")
		e.metrics.RecordEvaluation(ctx, string(group), "error")
		return Result{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	e.metrics.DecodeDuration.Record(ctx, time.Since(decodeStart).Seconds())

	// Feature extraction and transcription are independent; run them
	// concurrently. Extraction cannot fail (it degrades to the empty
	// sentinel), so only the transcription branch can abort.
	var (
		feats features.AudioFeatures
		tr    asr.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		feats = e.extractor.Extract(samples)
		e.metrics.FeatureDuration.Record(gctx, time.Since(start).Seconds())
		if !feats.IsValid() {
			e.metrics.RecordStageError(gctx, "features")
		}
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		tr, err = e.provider.Transcribe(gctx, samples, e.cfg.Scoring.Audio.SampleRate)
		e.metrics.TranscribeDuration.Record(gctx, time.Since(start).Seconds())
		if err != nil {
			e.metrics.RecordStageError(gctx, "transcribe")
			return fmt.Errorf("%w: %w", ErrTranscribe, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.metrics.RecordEvaluation(ctx, string(group), "error")
		return Result{}, err
	}

	duration := float64(len(samples)) / float64(e.cfg.Scoring.Audio.SampleRate)

	// Score and assemble.
	scoreStart := time.Now()
	in := metrics.Input{
		Words:    tr.Words,
		FullText: tr.FullText,
		Segments: tr.Segments,
		Duration: duration,
		Audio:    feats,
	}
	ev := e.scorer.Evaluate(in, req.StudentAge)
	suggestions := e.scorer.Suggestions(ev)

	raw := report.FromEvaluation(
		report.Metadata{
			StudentName:     req.StudentName,
			StudentAge:      req.StudentAge,
			AgeGroup:        group,
			Topic:           req.Topic,
			AudioFile:       req.AudioFile,
			DurationSeconds: duration,
			WordCount:       tr.WordCount(),
			EvaluationDate:  e.now().UTC(),
			ModelUsed:       tr.Model,
		},
		report.Transcript{
			FullText:            tr.FullText,
			WordCount:           tr.WordCount(),
			Language:            tr.Language,
			LanguageProbability: tr.LanguageProbability,
		},
		ev, suggestions, feats,
	)
	presentation := e.presenter.ForAge(raw, req.StudentAge)
	e.metrics.ScoreDuration.Record(ctx, time.Since(scoreStart).Seconds())

	e.persist(ctx, &store.Record{Report: raw, Presentation: presentation})

	e.metrics.PipelineDuration.Record(ctx, time.Since(pipelineStart).Seconds())
	e.metrics.RecordEvaluation(ctx, string(group), "ok")
	e.log.Info("evaluation complete",
		"student_age", req.StudentAge,
		"age_group", group,
		"words", tr.WordCount(),
		"overall", raw.Scores.Overall,
		"audio_valid", raw.AudioValid,
	)

	return Result{Report: raw, Presentation: presentation}, nil
}

// persist saves the record best-effort.
func (e *Evaluator) persist(ctx context.Context, rec *store.Record) {
	if e.stores == nil {
		return
	}
	if err := e.stores.Save(ctx, rec); err != nil {
		e.metrics.RecordStoreWrite(ctx, "configured", "error")
		e.log.Error("failed to persist evaluation", "error", err)
		return
	}
	e.metrics.RecordStoreWrite(ctx, "configured", "ok")
}
