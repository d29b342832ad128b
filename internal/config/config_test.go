package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StoreDriver != "json" || cfg.ScoresFile != "web/scores.json" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if cfg.ChallengeBudget != 5*time.Second || !cfg.ChallengeEnabled {
		t.Fatalf("unexpected challenge defaults: %+v", cfg)
	}
	if cfg.WordAPITimeout != 2*time.Second || cfg.WordAPIDisabled {
		t.Fatalf("unexpected word defaults: %+v", cfg)
	}
	if cfg.Port != "8000" || cfg.RNGSeed != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("CHALLENGE_BUDGET", "750ms")
	t.Setenv("CHALLENGE_ENABLED", "false")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("WORDS_FILE", "/tmp/words.txt")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StoreDriver != "sqlite" || cfg.ChallengeBudget != 750*time.Millisecond ||
		cfg.ChallengeEnabled || cfg.RNGSeed != 42 || cfg.WordsFile != "/tmp/words.txt" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{"CHALLENGE_BUDGET", "soon", "parse env:"},
		{"STORE_DRIVER", "postgres", "STORE_DRIVER"},
		{"CHALLENGE_BUDGET", "0s", "CHALLENGE_BUDGET"},
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}
