package activation_test

import (
	"testing"

	"github.com/gxo-labs/loggable/internal/activation"
	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/stretchr/testify/assert"
)

// allConfigs enumerates every combination of the four flags.
func allConfigs() []config.LogConfig {
	var out []config.LogConfig
	for i := 0; i < 16; i++ {
		out = append(out, config.LogConfig{
			Enabled:       i&1 != 0,
			LogParameters: i&2 != 0,
			LogResult:     i&4 != 0,
			LogError:      i&8 != 0,
		})
	}
	return out
}

func TestDisabledNeverLogs(t *testing.T) {
	for _, cfg := range allConfigs() {
		if cfg.Enabled {
			continue
		}
		assert.False(t, activation.ShouldLogParameters(cfg), "cfg=%+v", cfg)
		assert.False(t, activation.ShouldLogResult(cfg), "cfg=%+v", cfg)
		assert.False(t, activation.ShouldLogError(cfg), "cfg=%+v", cfg)
	}
}

func TestEnabledFollowsPhaseFlags(t *testing.T) {
	for _, cfg := range allConfigs() {
		if !cfg.Enabled {
			continue
		}
		assert.Equal(t, cfg.LogParameters, activation.ShouldLogParameters(cfg), "cfg=%+v", cfg)
		assert.Equal(t, cfg.LogResult, activation.ShouldLogResult(cfg), "cfg=%+v", cfg)
		assert.Equal(t, cfg.LogError, activation.ShouldLogError(cfg), "cfg=%+v", cfg)
	}
}

func TestShouldLog(t *testing.T) {
	cfg := config.NewLogConfig(config.WithLogResult(false))

	testCases := []struct {
		name   string
		phase  record.Phase
		expect bool
	}{
		{name: "Pre", phase: record.PhasePre, expect: true},
		{name: "Post Success", phase: record.PhasePostSuccess, expect: false},
		{name: "Post Failure", phase: record.PhasePostFailure, expect: true},
		{name: "Unknown Phase", phase: record.Phase("around"), expect: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, activation.ShouldLog(cfg, tc.phase))
		})
	}
}
