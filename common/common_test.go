package common

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"testing"
)

func TestDecimalToFixed(t *testing.T) {
	cases := []struct {
		in        float64
		precision int
		want      float64
	}{
		{1.23456, 2, 1.23},
		{1.235, 0, 1},
		{-2.5, 0, -3},
	}
	for _, c := range cases {
		if got := DecimalToFixed(c.in, c.precision); got != c.want {
			t.Errorf("DecimalToFixed(%v, %d): expected %v, got %v", c.in, c.precision, c.want, got)
		}
	}
	if !math.IsNaN(DecimalToFixed(math.NaN(), 2)) {
		t.Error("expected NaN unchanged")
	}
	if Round(2.5) != 3 || Round(-2.5) != -3 {
		t.Error("expected rounding half away from zero")
	}
}

func TestFinite(t *testing.T) {
	got := Finite([]float64{1, math.NaN(), 2, math.Inf(1), math.Inf(-1), 3})
	if !slices.Equal(got, []float64{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
}

func TestParseSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"-8":    slog.Level(-8),
	}
	for in, want := range cases {
		got, err := ParseSlogLevel(in)
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseSlogLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSlogResetLevel(t *testing.T) {
	reset := SlogResetLevel(slog.LevelError)
	if !slog.Default().Enabled(context.Background(), slog.LevelError) || slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("expected level error")
	}
	reset()
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected level restored")
	}
}
