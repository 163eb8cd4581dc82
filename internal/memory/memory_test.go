package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

// restoreLimit puts the runtime memory limit back after a test.
func restoreLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
}

func TestConfigureFromEnvUnset(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")

	result := ConfigureFromEnv()
	if result.Configured {
		t.Error("Configured = true with no limits in environment")
	}
	if result.Source != "none" {
		t.Errorf("Source = %q, want none", result.Source)
	}
}

func TestConfigureFromMemoryLimit(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "1073741824") // 1 GiB
	t.Setenv("MEMORY_RATIO", "")

	result := ConfigureFromEnv()
	if !result.Configured {
		t.Fatal("Configured = false with MEMORY_LIMIT set")
	}
	if result.Source != "MEMORY_LIMIT" {
		t.Errorf("Source = %q, want MEMORY_LIMIT", result.Source)
	}
	limit := int64(1073741824)
	want := int64(float64(limit) * DefaultRatio)
	if result.GoMemLimit != want {
		t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, want)
	}
	if got := debug.SetMemoryLimit(-1); got != want {
		t.Errorf("runtime limit = %d, want %d", got, want)
	}
}

func TestConfigureCustomRatio(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "1000000000")
	t.Setenv("MEMORY_RATIO", "0.5")

	result := ConfigureFromEnv()
	if math.Abs(result.Ratio-0.5) > 1e-9 {
		t.Errorf("Ratio = %v, want 0.5", result.Ratio)
	}
	if result.GoMemLimit != 500000000 {
		t.Errorf("GoMemLimit = %d, want 500000000", result.GoMemLimit)
	}
}

func TestConfigureInvalidValues(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")

	t.Setenv("MEMORY_LIMIT", "not-a-number")
	if result := ConfigureFromEnv(); result.Configured {
		t.Error("Configured = true for invalid MEMORY_LIMIT")
	}

	t.Setenv("MEMORY_LIMIT", "1000000000")
	t.Setenv("MEMORY_RATIO", "2.5")
	result := ConfigureFromEnv()
	if math.Abs(result.Ratio-DefaultRatio) > 1e-9 {
		t.Errorf("Ratio = %v for invalid MEMORY_RATIO, want default %v", result.Ratio, DefaultRatio)
	}
}
