// Package whisper implements the asr.Provider interface on top of the
// whisper.cpp CGO bindings. The whisper.cpp static library (libwhisper.a) and
// headers (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.
//
// The model is loaded once at startup and shared across transcriptions; each
// call creates its own whisper context, so concurrent calls are safe.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/podium-ed/podium/pkg/asr"
)

// Compile-time assertion that Provider satisfies asr.Provider.
var _ asr.Provider = (*Provider)(nil)

const defaultLanguage = "en"

// Provider transcribes recordings with a shared whisper.cpp model.
type Provider struct {
	model     whisperlib.Model
	modelName string
	language  string

	mu     sync.Mutex
	closed bool
}

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithLanguage sets the language code passed to whisper (e.g., "en", "de").
// Defaults to "en"; "auto" enables language detection.
func WithLanguage(lang string) Option {
	return func(p *Provider) {
		if lang != "" {
			p.language = lang
		}
	}
}

// New creates a Provider that loads the whisper.cpp model from the given
// file path. The caller must call Close when the provider is no longer
// needed.
func New(modelPath string, opts ...Option) (*Provider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	p := &Provider{
		model:     model,
		modelName: strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath)),
		language:  defaultLanguage,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model. Transcribe calls after Close fail.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe runs whisper.cpp inference over the full recording and returns
// the word-level result. Token timestamps are enabled so that every word
// carries start/end offsets and a probability usable as confidence.
func (p *Provider) Transcribe(ctx context.Context, samples []float32, sampleRate int) (asr.Result, error) {
	if err := ctx.Err(); err != nil {
		return asr.Result{}, fmt.Errorf("whisper: context already cancelled: %w", err)
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return asr.Result{}, errors.New("whisper: provider is closed")
	}
	if sampleRate <= 0 {
		return asr.Result{}, fmt.Errorf("whisper: invalid sample rate %d", sampleRate)
	}

	// Each context is NOT thread-safe, but the model can be shared.
	wctx, err := p.model.NewContext()
	if err != nil {
		return asr.Result{}, fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(p.language); err != nil {
		return asr.Result{}, fmt.Errorf("whisper: set language %q: %w", p.language, err)
	}
	wctx.SetTokenTimestamps(true)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return asr.Result{}, fmt.Errorf("whisper: process audio: %w", err)
	}

	result := asr.Result{
		Duration: float64(len(samples)) / float64(sampleRate),
		Language: p.language,
		Model:    p.modelName,
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return asr.Result{}, fmt.Errorf("whisper: read segment: %w", err)
		}

		text := strings.TrimSpace(segment.Text)
		if text != "" {
			result.Segments = append(result.Segments, asr.Segment{
				ID:    segment.Num,
				Start: segment.Start.Seconds(),
				End:   segment.End.Seconds(),
				Text:  text,
			})
			parts = append(parts, text)
		}

		for _, tok := range segment.Tokens {
			word := strings.TrimSpace(tok.Text)
			if word == "" || isSpecialToken(word) {
				continue
			}
			result.Words = append(result.Words, asr.Word{
				Text:       word,
				Start:      tok.Start.Seconds(),
				End:        tok.End.Seconds(),
				Confidence: float64(tok.P),
			})
		}
	}
	result.FullText = strings.Join(parts, " ")

	return result, nil
}

// isSpecialToken reports whether a token is a whisper control token such as
// "[_BEG_]" or "<|endoftext|>" rather than spoken text.
func isSpecialToken(text string) bool {
	return (strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")) ||
		(strings.HasPrefix(text, "<|") && strings.HasSuffix(text, "|>"))
}
