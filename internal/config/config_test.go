package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envMap returns a lookup function backed by a fixed map, so tests never
// touch the process environment.
func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolveDefaultsSurviveEmptyOverlays(t *testing.T) {
	cfg := Resolve(Defaults(), Overlay{}, Overlay{})
	assert.Equal(t, Defaults(), cfg)
}

func TestResolveRepoLayerWins(t *testing.T) {
	var repo Overlay
	provider := "heuristic"
	threshold := 0.5
	repo.Inference.Provider = &provider
	repo.Confirm.Threshold = &threshold
	repo.Scan.Exclude = []string{"tmp/**"}

	cfg := Resolve(Defaults(), repo)
	assert.Equal(t, "heuristic", cfg.Inference.Provider)
	assert.Equal(t, 0.5, cfg.Confirm.Threshold)
	assert.Equal(t, []string{"tmp/**"}, cfg.Scan.Exclude)
	// Fields the overlay left unset keep their defaults.
	assert.Equal(t, Defaults().Inference.Model, cfg.Inference.Model)
	assert.Equal(t, Defaults().Scan.Include, cfg.Scan.Include)
}

func TestResolveEnvLayerWinsOverRepo(t *testing.T) {
	var repo Overlay
	repoProvider := "openai"
	repo.Inference.Provider = &repoProvider

	env := FromEnv(envMap(map[string]string{"RIPP_PROVIDER": "heuristic"}))
	cfg := Resolve(Defaults(), repo, env)
	assert.Equal(t, "heuristic", cfg.Inference.Provider)
}

// ---------------------------------------------------------------------------
// FromEnv
// ---------------------------------------------------------------------------

func TestFromEnv(t *testing.T) {
	o := FromEnv(envMap(map[string]string{
		"RIPP_PROVIDER":        "openai",
		"RIPP_MODEL":           "gpt-4o",
		"RIPP_MIN_CONFIDENCE":  "0.4",
		"RIPP_MAX_RETRIES":     "5",
		"RIPP_TIMEOUT_SECONDS": "60",
		"RIPP_THRESHOLD":       "0.9",
		"RIPP_ACTOR":           "reviewer",
		"RIPP_LOG_LEVEL":       "debug",
	}))

	require.NotNil(t, o.Inference.Provider)
	assert.Equal(t, "openai", *o.Inference.Provider)
	require.NotNil(t, o.Inference.MinConfidence)
	assert.Equal(t, 0.4, *o.Inference.MinConfidence)
	require.NotNil(t, o.Inference.MaxRetries)
	assert.Equal(t, 5, *o.Inference.MaxRetries)
	require.NotNil(t, o.Confirm.Threshold)
	assert.Equal(t, 0.9, *o.Confirm.Threshold)
	require.NotNil(t, o.Confirm.Actor)
	assert.Equal(t, "reviewer", *o.Confirm.Actor)
	require.NotNil(t, o.Log.Level)
	assert.Equal(t, "debug", *o.Log.Level)
}

func TestFromEnvIgnoresUnparseableNumbers(t *testing.T) {
	o := FromEnv(envMap(map[string]string{
		"RIPP_MIN_CONFIDENCE": "not-a-number",
		"RIPP_MAX_RETRIES":    "many",
	}))
	assert.Nil(t, o.Inference.MinConfidence)
	assert.Nil(t, o.Inference.MaxRetries)
}

// ---------------------------------------------------------------------------
// LoadRepo
// ---------------------------------------------------------------------------

func TestLoadRepoMissingFileIsEmptyOverlay(t *testing.T) {
	o, err := LoadRepo(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, o.Inference.Provider)
	assert.Nil(t, o.Scan.Include)
}

func TestLoadRepoReadsConfigYAML(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".ripp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	doc := "inference:\n  provider: heuristic\n  allow_network: true\nconfirm:\n  threshold: 0.7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0o644))

	o, err := LoadRepo(root)
	require.NoError(t, err)
	require.NotNil(t, o.Inference.Provider)
	assert.Equal(t, "heuristic", *o.Inference.Provider)
	require.NotNil(t, o.Inference.AllowNetwork)
	assert.True(t, *o.Inference.AllowNetwork)
	require.NotNil(t, o.Confirm.Threshold)
	assert.Equal(t, 0.7, *o.Confirm.Threshold)
}

func TestLoadRepoRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".ripp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("inference: [unclosed"), 0o644))

	_, err := LoadRepo(root)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// NetworkInferenceAllowed
// ---------------------------------------------------------------------------

func TestNetworkInferenceAllowed(t *testing.T) {
	allowed := Defaults()
	allowed.Inference.AllowNetwork = true

	tests := []struct {
		name       string
		cfg        Config
		env        map[string]string
		want       bool
		wantReason string
	}{
		{
			name:       "repo switch off",
			cfg:        Defaults(),
			env:        map[string]string{"RIPP_NETWORK_INFERENCE": "1", "OPENAI_API_KEY": "k"},
			want:       false,
			wantReason: "repo config inference.allow_network is false",
		},
		{
			name:       "session switch missing",
			cfg:        allowed,
			env:        map[string]string{"OPENAI_API_KEY": "k"},
			want:       false,
			wantReason: "RIPP_NETWORK_INFERENCE is not enabled in this session",
		},
		{
			name:       "session switch wrong value",
			cfg:        allowed,
			env:        map[string]string{"RIPP_NETWORK_INFERENCE": "yes", "OPENAI_API_KEY": "k"},
			want:       false,
			wantReason: "RIPP_NETWORK_INFERENCE is not enabled in this session",
		},
		{
			name:       "credentials missing",
			cfg:        allowed,
			env:        map[string]string{"RIPP_NETWORK_INFERENCE": "true"},
			want:       false,
			wantReason: "OPENAI_API_KEY is not set",
		},
		{
			name: "all gates open",
			cfg:  allowed,
			env:  map[string]string{"RIPP_NETWORK_INFERENCE": "1", "OPENAI_API_KEY": "k"},
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := NetworkInferenceAllowed(tc.cfg, envMap(tc.env))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantReason, reason)
		})
	}
}
