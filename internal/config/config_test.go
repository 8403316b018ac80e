package config

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) = %v, want nil", err)
	}
}

func TestWeightRowsSumToOne(t *testing.T) {
	cfg := Default()
	for _, g := range Groups {
		row, ok := cfg.Scoring.Weights[g]
		if !ok {
			t.Errorf("missing weight row for %s", g)
			continue
		}
		if sum := row.Sum(); math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("weights[%s] sum to %f, want 1.0", g, sum)
		}
	}
}

func TestGroupForAgeIsTotal(t *testing.T) {
	tests := []struct {
		age  int
		want AgeGroup
	}{
		{3, AgePrePrimary},
		{5, AgePrePrimary},
		{6, AgeLowerPrimary},
		{8, AgeLowerPrimary},
		{9, AgeUpperPrimary},
		{10, AgeUpperPrimary},
		{11, AgeMiddle},
		{13, AgeMiddle},
		{14, AgeSecondary},
		{18, AgeSecondary},
	}
	for _, tt := range tests {
		if got := GroupForAge(tt.age); got != tt.want {
			t.Errorf("GroupForAge(%d) = %s, want %s", tt.age, got, tt.want)
		}
	}

	// Every age 3-18 must resolve to a valid group.
	for age := 3; age <= 18; age++ {
		if !GroupForAge(age).IsValid() {
			t.Errorf("GroupForAge(%d) is not a valid group", age)
		}
	}
}

func TestIsYoung(t *testing.T) {
	if !AgePrePrimary.IsYoung() || !AgeLowerPrimary.IsYoung() {
		t.Error("pre_primary and lower_primary should be young groups")
	}
	if AgeUpperPrimary.IsYoung() || AgeMiddle.IsYoung() || AgeSecondary.IsYoung() {
		t.Error("upper_primary, middle and secondary are not young groups")
	}
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	yaml := `
server:
  log_level: debug
scoring:
  max_suggestions: 3
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.Server.LogLevel != LogDebug {
		t.Errorf("LogLevel = %s, want debug", cfg.Server.LogLevel)
	}
	if cfg.Scoring.MaxSuggestions != 3 {
		t.Errorf("MaxSuggestions = %d, want 3", cfg.Scoring.MaxSuggestions)
	}
	// Untouched defaults survive the merge.
	if cfg.Scoring.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want default 16000", cfg.Scoring.Audio.SampleRate)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("serverr:\n  log_level: info\n")); err == nil {
		t.Error("unknown top-level key should fail to decode")
	}
}

func TestValidateRejectsBadWeightRow(t *testing.T) {
	cfg := Default()
	row := cfg.Scoring.Weights[AgeMiddle]
	row.Clarity += 0.05
	cfg.Scoring.Weights[AgeMiddle] = row

	err := Validate(cfg)
	if err == nil {
		t.Fatal("weight row not summing to 1.0 must fail validation")
	}
	if !strings.Contains(err.Error(), "scoring.weights[middle]") {
		t.Errorf("error %q should name the offending row", err)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Server.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Error("invalid log level must fail validation")
	}
}

func TestValidateRejectsDuplicateBadgeID(t *testing.T) {
	cfg := Default()
	rules := cfg.Presentation.Badges[AgePrePrimary]
	rules = append(rules, rules[0])
	cfg.Presentation.Badges[AgePrePrimary] = rules
	if err := Validate(cfg); err == nil {
		t.Error("duplicate badge id must fail validation")
	}
}

func TestBandFallsBackByAge(t *testing.T) {
	cfg := Default().Scoring
	if got := cfg.Band(10); got.WPMMin != 80 || got.WPMMax != 130 {
		t.Errorf("Band(10) wpm range = [%d, %d], want [80, 130]", got.WPMMin, got.WPMMax)
	}
	if got := cfg.Band(16); got.FillerTolerance != 0.05 {
		t.Errorf("Band(16) filler tolerance = %f, want 0.05", got.FillerTolerance)
	}
}
