// Package activation decides, per phase, whether a method's configuration asks
// for a record. Every function is pure and total.
package activation

import (
	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
)

// ShouldLogParameters reports whether the pre-call record is active.
func ShouldLogParameters(cfg config.LogConfig) bool {
	return cfg.Enabled && cfg.LogParameters
}

// ShouldLogResult reports whether the post-success record is active.
func ShouldLogResult(cfg config.LogConfig) bool {
	return cfg.Enabled && cfg.LogResult
}

// ShouldLogError reports whether the post-failure record is active.
func ShouldLogError(cfg config.LogConfig) bool {
	return cfg.Enabled && cfg.LogError
}

// ShouldLog dispatches on phase. Unknown phases are never active.
func ShouldLog(cfg config.LogConfig, phase record.Phase) bool {
	switch phase {
	case record.PhasePre:
		return ShouldLogParameters(cfg)
	case record.PhasePostSuccess:
		return ShouldLogResult(cfg)
	case record.PhasePostFailure:
		return ShouldLogError(cfg)
	default:
		return false
	}
}
