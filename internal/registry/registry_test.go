package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/internal/registry"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	r := registry.NewStaticRegistry()
	m := config.MustDeclare("Greeter", "greet", config.DefaultLogConfig(), config.Logged("name"))

	require.NoError(t, r.Register(m))
	got, err := r.Get("Greeter", "greet")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = r.Get("Greeter", "wave")
	require.Error(t, err)
	var nfErr *loggableerrors.MethodNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "Greeter.wave", nfErr.Key)
}

func TestRegister_Rejects(t *testing.T) {
	r := registry.NewStaticRegistry()
	m := config.MustDeclare("T", "m", config.DefaultLogConfig())

	err := r.Register(nil)
	require.Error(t, err)
	var cErr *loggableerrors.ConfigError
	assert.True(t, errors.As(err, &cErr))

	require.NoError(t, r.Register(m))
	err = r.Register(config.MustDeclare("T", "m", config.DefaultLogConfig()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate declaration 'T.m'")
}

func TestList_Sorted(t *testing.T) {
	r := registry.NewStaticRegistry()
	for _, key := range [][2]string{{"Zeta", "run"}, {"Alpha", "stop"}, {"Alpha", "go"}} {
		require.NoError(t, r.Register(config.MustDeclare(key[0], key[1], config.DefaultLogConfig())))
	}
	assert.Equal(t, []string{"Alpha.go", "Alpha.stop", "Zeta.run"}, r.List())
}

func TestLoadBytes(t *testing.T) {
	doc := `
schemaVersion: "1.0.0"
methods:
  - type: Greeter
    method: greet
    parameters:
      - name: name
        log: true
  - type: Greeter
    method: wave
`
	r := registry.NewStaticRegistry()
	require.NoError(t, r.LoadBytes([]byte(doc), "inline.yaml"))
	assert.Equal(t, []string{"Greeter.greet", "Greeter.wave"}, r.List())

	// A second load collides and registers nothing.
	other := "schemaVersion: \"1.0.0\"\nmethods:\n  - type: Other\n    method: x\n  - type: Greeter\n    method: wave\n"
	err := r.LoadBytes([]byte(other), "other.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate declaration 'Greeter.wave'")
	assert.Equal(t, []string{"Greeter.greet", "Greeter.wave"}, r.List(), "A failed load must not register anything")

	require.Error(t, r.LoadBytes([]byte("schemaVersion: \"1.0.0\"\nmethods: []\n"), "empty.yaml"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemaVersion: \"1.0.0\"\nmethods:\n  - type: T\n    method: m\n"), 0o600))

	r := registry.NewStaticRegistry()
	require.NoError(t, r.LoadFile(path))
	_, err := r.Get("T", "m")
	assert.NoError(t, err)

	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestGlobalRegister(t *testing.T) {
	m := config.MustDeclare("GlobalRegistryTest", "only", config.DefaultLogConfig())
	assert.NotPanics(t, func() { registry.Register(m) })
	assert.Panics(t, func() { registry.Register(m) }, "Duplicate global registration panics")

	got, err := registry.Default().Get("GlobalRegistryTest", "only")
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestConcurrentAccess(t *testing.T) {
	r := registry.NewStaticRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			assert.NoError(t, r.Register(config.MustDeclare("T", name, config.DefaultLogConfig())))
			_, _ = r.Get("T", name)
			_ = r.List()
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.List(), 20)
}
