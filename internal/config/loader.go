package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// weightSumTolerance is the accepted deviation of a weight row from 1.0.
const weightSumTolerance = 1e-6

// Load reads the YAML configuration file at path, applies it over [Default],
// and returns the validated result. It is a convenience wrapper around
// [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found. Scoring weight rows
// that do not sum to 1.0 are a hard failure — they are never renormalized.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Every age group needs a band and a weight row; every declared row must
	// belong to a known group and sum to 1.0.
	for _, g := range Groups {
		if _, ok := cfg.Scoring.AgeBands[g]; !ok {
			errs = append(errs, fmt.Errorf("scoring.age_bands is missing group %q", g))
		}
		if _, ok := cfg.Scoring.Weights[g]; !ok {
			errs = append(errs, fmt.Errorf("scoring.weights is missing group %q", g))
		}
	}
	for g, row := range cfg.Scoring.Weights {
		if !g.IsValid() {
			errs = append(errs, fmt.Errorf("scoring.weights contains unknown group %q", g))
			continue
		}
		if sum := row.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
			errs = append(errs, fmt.Errorf("scoring.weights[%s] sums to %.6f, want 1.0", g, sum))
		}
	}
	for g, band := range cfg.Scoring.AgeBands {
		if !g.IsValid() {
			errs = append(errs, fmt.Errorf("scoring.age_bands contains unknown group %q", g))
			continue
		}
		if band.MinAge > band.MaxAge {
			errs = append(errs, fmt.Errorf("scoring.age_bands[%s]: min_age %d > max_age %d", g, band.MinAge, band.MaxAge))
		}
		if band.WPMMin <= 0 || band.WPMMax <= band.WPMMin {
			errs = append(errs, fmt.Errorf("scoring.age_bands[%s]: wpm range [%d, %d] is invalid", g, band.WPMMin, band.WPMMax))
		}
	}

	tr := cfg.Scoring.Transcript
	if tr.ExcessivePauseSeconds < tr.LongPauseSeconds {
		errs = append(errs, fmt.Errorf("scoring.transcript: excessive_pause_seconds %.1f < long_pause_seconds %.1f", tr.ExcessivePauseSeconds, tr.LongPauseSeconds))
	}
	if tr.LowConfidence < 0 || tr.LowConfidence > 1 {
		errs = append(errs, fmt.Errorf("scoring.transcript.low_confidence %.2f is out of range [0, 1]", tr.LowConfidence))
	}

	au := cfg.Scoring.Audio
	if au.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("scoring.audio.sample_rate %d must be positive", au.SampleRate))
	}
	if au.FrameLength <= 0 || au.HopLength <= 0 || au.HopLength > au.FrameLength {
		errs = append(errs, fmt.Errorf("scoring.audio: frame_length %d / hop_length %d is invalid", au.FrameLength, au.HopLength))
	}
	if au.Loudness.OptimalMinDB >= au.Loudness.OptimalMaxDB {
		errs = append(errs, fmt.Errorf("scoring.audio.loudness: optimal range [%.1f, %.1f] is invalid", au.Loudness.OptimalMinDB, au.Loudness.OptimalMaxDB))
	}
	if au.Pitch.FMin <= 0 || au.Pitch.FMax <= au.Pitch.FMin {
		errs = append(errs, fmt.Errorf("scoring.audio.pitch: frequency band [%.0f, %.0f] is invalid", au.Pitch.FMin, au.Pitch.FMax))
	}
	if au.Pitch.MonotoneStd >= au.Pitch.ErraticStd {
		errs = append(errs, fmt.Errorf("scoring.audio.pitch: monotone_std %.1f must be below erratic_std %.1f", au.Pitch.MonotoneStd, au.Pitch.ErraticStd))
	}
	if au.Stamina.Segments < 2 {
		errs = append(errs, fmt.Errorf("scoring.audio.stamina.segments %d must be at least 2", au.Stamina.Segments))
	}
	if au.Stamina.WarningDropoff >= au.Stamina.GoodDropoff {
		errs = append(errs, fmt.Errorf("scoring.audio.stamina: warning_dropoff %.2f must be below good_dropoff %.2f", au.Stamina.WarningDropoff, au.Stamina.GoodDropoff))
	}

	if cfg.Scoring.MaxSuggestions <= 0 {
		errs = append(errs, fmt.Errorf("scoring.max_suggestions %d must be positive", cfg.Scoring.MaxSuggestions))
	}

	for g, rules := range cfg.Presentation.Badges {
		if !g.IsValid() {
			errs = append(errs, fmt.Errorf("presentation.badges contains unknown group %q", g))
			continue
		}
		seen := make(map[string]int, len(rules))
		for i, rule := range rules {
			prefix := fmt.Sprintf("presentation.badges[%s][%d]", g, i)
			if rule.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			} else {
				if prev, ok := seen[rule.ID]; ok {
					errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of entry %d", prefix, rule.ID, prev))
				}
				seen[rule.ID] = i
			}
			if rule.Condition == "" {
				errs = append(errs, fmt.Errorf("%s.condition is required", prefix))
			}
		}
	}

	return errors.Join(errs...)
}
