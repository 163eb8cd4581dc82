package memory

import (
	"os"
	"runtime/debug"
	"strconv"

	"gfx-engine/internal/logging"
)

// DefaultRatio is the share of the container memory limit handed to the Go
// heap; the rest stays free for ffmpeg, libvips, and goroutine stacks.
const DefaultRatio = 0.85

// Result reports what ConfigureFromEnv decided.
type Result struct {
	Configured     bool
	Source         string // "GOMEMLIMIT", "MEMORY_LIMIT", or "none"
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// ConfigureFromEnv sets GOMEMLIMIT from the environment. Call early in
// main, before significant allocations.
//
//   - GOMEMLIMIT: honored as-is when set (standard runtime variable)
//   - MEMORY_LIMIT: container limit in bytes (e.g. from the Kubernetes
//     Downward API); the Go limit becomes MEMORY_LIMIT × ratio
//   - MEMORY_RATIO: overrides DefaultRatio
func ConfigureFromEnv() Result {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		logging.Info("memory: GOMEMLIMIT set via environment: %s", env)
		return Result{Configured: true, Source: "GOMEMLIMIT", GoMemLimit: debug.SetMemoryLimit(-1)}
	}

	limitStr := os.Getenv("MEMORY_LIMIT")
	if limitStr == "" {
		logging.Debug("memory: no MEMORY_LIMIT in environment, leaving GOMEMLIMIT unset")
		return Result{Source: "none"}
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		logging.Warn("memory: invalid MEMORY_LIMIT %q, ignoring", limitStr)
		return Result{Source: "none"}
	}

	ratio := DefaultRatio
	if ratioStr := os.Getenv("MEMORY_RATIO"); ratioStr != "" {
		if r, err := strconv.ParseFloat(ratioStr, 64); err == nil && r > 0 && r <= 1 {
			ratio = r
		} else {
			logging.Warn("memory: invalid MEMORY_RATIO %q, using %.2f", ratioStr, DefaultRatio)
		}
	}

	goLimit := int64(float64(limit) * ratio)
	debug.SetMemoryLimit(goLimit)
	logging.Info("memory: GOMEMLIMIT=%d (%.0f%% of container limit %d)", goLimit, ratio*100, limit)
	return Result{
		Configured:     true,
		Source:         "MEMORY_LIMIT",
		ContainerLimit: limit,
		GoMemLimit:     goLimit,
		Ratio:          ratio,
	}
}
