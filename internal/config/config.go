// Package config resolves pipeline configuration from three immutable
// layers: built-in defaults, the repo's .ripp/config.yaml, and RIPP_*
// environment overrides. Resolve is an explicit merge; there is no global
// mutable singleton. Callers pass the resolved Config through the pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved configuration for one pipeline invocation.
type Config struct {
	Scan      ScanConfig      `yaml:"scan"`
	Inference InferenceConfig `yaml:"inference"`
	Confirm   ConfirmConfig   `yaml:"confirm"`
	Packet    PacketConfig    `yaml:"packet"`
	Log       LogConfig       `yaml:"log"`
}

// ScanConfig controls the evidence scanner.
type ScanConfig struct {
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
}

// InferenceConfig controls the inference engine and its providers.
type InferenceConfig struct {
	// Provider is "auto", "openai", or "heuristic". "auto" picks the
	// network provider when the policy gates allow it, else heuristic.
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	MinConfidence  float64 `yaml:"min_confidence"`
	MaxRetries     int     `yaml:"max_retries"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	// AllowNetwork is the repo-level policy switch. The session-level
	// switch is the RIPP_NETWORK_INFERENCE environment variable; both
	// must be on, plus credentials, for network inference to run.
	AllowNetwork bool `yaml:"allow_network"`
}

// ConfirmConfig controls the confirmation workflow.
type ConfirmConfig struct {
	Threshold float64 `yaml:"threshold"`
	Actor     string  `yaml:"actor"`
}

// PacketConfig seeds compiled packet metadata.
type PacketConfig struct {
	Title string `yaml:"title"`
}

// LogConfig controls slog initialization.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Overlay is one partial configuration layer. Nil fields mean "not set";
// the merge never lets an unset field shadow a lower layer.
type Overlay struct {
	Scan struct {
		Include      []string `yaml:"include"`
		Exclude      []string `yaml:"exclude"`
		MaxFileBytes *int64   `yaml:"max_file_bytes"`
	} `yaml:"scan"`
	Inference struct {
		Provider       *string  `yaml:"provider"`
		Model          *string  `yaml:"model"`
		MinConfidence  *float64 `yaml:"min_confidence"`
		MaxRetries     *int     `yaml:"max_retries"`
		TimeoutSeconds *int     `yaml:"timeout_seconds"`
		AllowNetwork   *bool    `yaml:"allow_network"`
	} `yaml:"inference"`
	Confirm struct {
		Threshold *float64 `yaml:"threshold"`
		Actor     *string  `yaml:"actor"`
	} `yaml:"confirm"`
	Packet struct {
		Title *string `yaml:"title"`
	} `yaml:"packet"`
	Log struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
}

// Defaults returns the built-in bottom layer.
func Defaults() Config {
	return Config{
		Scan: ScanConfig{
			Include:      []string{"**"},
			Exclude:      []string{".git/**", ".ripp/**", "node_modules/**", "vendor/**", "dist/**", "build/**"},
			MaxFileBytes: 256 * 1024,
		},
		Inference: InferenceConfig{
			Provider:       "auto",
			Model:          "gpt-4o-mini",
			MinConfidence:  0,
			MaxRetries:     3,
			TimeoutSeconds: 30,
			AllowNetwork:   false,
		},
		Confirm: ConfirmConfig{
			Threshold: 0.8,
			Actor:     "local-user",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadRepo reads .ripp/config.yaml relative to root.
// Returns an empty overlay (not an error) if the file does not exist.
func LoadRepo(root string) (Overlay, error) {
	var o Overlay
	path := filepath.Join(root, ".ripp", "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return o, nil
	}
	if err != nil {
		return o, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("parse %s: %w", path, err)
	}
	return o, nil
}

// FromEnv builds the top overlay from RIPP_* variables. lookup is usually
// os.LookupEnv; tests inject a map-backed function.
func FromEnv(lookup func(string) (string, bool)) Overlay {
	var o Overlay
	if v, ok := lookup("RIPP_PROVIDER"); ok {
		o.Inference.Provider = &v
	}
	if v, ok := lookup("RIPP_MODEL"); ok {
		o.Inference.Model = &v
	}
	if v, ok := lookup("RIPP_MIN_CONFIDENCE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.Inference.MinConfidence = &f
		}
	}
	if v, ok := lookup("RIPP_MAX_RETRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Inference.MaxRetries = &n
		}
	}
	if v, ok := lookup("RIPP_TIMEOUT_SECONDS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Inference.TimeoutSeconds = &n
		}
	}
	if v, ok := lookup("RIPP_THRESHOLD"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.Confirm.Threshold = &f
		}
	}
	if v, ok := lookup("RIPP_ACTOR"); ok {
		o.Confirm.Actor = &v
	}
	if v, ok := lookup("RIPP_LOG_LEVEL"); ok {
		o.Log.Level = &v
	}
	if v, ok := lookup("RIPP_LOG_FORMAT"); ok {
		o.Log.Format = &v
	}
	return o
}

// Resolve merges defaults < repo < env into one Config.
// Later layers win only for fields they explicitly set.
func Resolve(def Config, layers ...Overlay) Config {
	cfg := def
	for _, o := range layers {
		if o.Scan.Include != nil {
			cfg.Scan.Include = o.Scan.Include
		}
		if o.Scan.Exclude != nil {
			cfg.Scan.Exclude = o.Scan.Exclude
		}
		if o.Scan.MaxFileBytes != nil {
			cfg.Scan.MaxFileBytes = *o.Scan.MaxFileBytes
		}
		if o.Inference.Provider != nil {
			cfg.Inference.Provider = *o.Inference.Provider
		}
		if o.Inference.Model != nil {
			cfg.Inference.Model = *o.Inference.Model
		}
		if o.Inference.MinConfidence != nil {
			cfg.Inference.MinConfidence = *o.Inference.MinConfidence
		}
		if o.Inference.MaxRetries != nil {
			cfg.Inference.MaxRetries = *o.Inference.MaxRetries
		}
		if o.Inference.TimeoutSeconds != nil {
			cfg.Inference.TimeoutSeconds = *o.Inference.TimeoutSeconds
		}
		if o.Inference.AllowNetwork != nil {
			cfg.Inference.AllowNetwork = *o.Inference.AllowNetwork
		}
		if o.Confirm.Threshold != nil {
			cfg.Confirm.Threshold = *o.Confirm.Threshold
		}
		if o.Confirm.Actor != nil {
			cfg.Confirm.Actor = *o.Confirm.Actor
		}
		if o.Packet.Title != nil {
			cfg.Packet.Title = *o.Packet.Title
		}
		if o.Log.Level != nil {
			cfg.Log.Level = *o.Log.Level
		}
		if o.Log.Format != nil {
			cfg.Log.Format = *o.Log.Format
		}
	}
	return cfg
}

// Load resolves the full configuration for a repo root using the process
// environment.
func Load(root string) (Config, error) {
	repo, err := LoadRepo(root)
	if err != nil {
		return Config{}, err
	}
	return Resolve(Defaults(), repo, FromEnv(os.LookupEnv)), nil
}

// NetworkInferenceAllowed reports whether network-backed inference may run.
// It requires the repo-level policy switch, the session-level
// RIPP_NETWORK_INFERENCE switch, and provider credentials. When it returns
// false the reason names the first missing gate.
func NetworkInferenceAllowed(cfg Config, lookup func(string) (string, bool)) (bool, string) {
	if !cfg.Inference.AllowNetwork {
		return false, "repo config inference.allow_network is false"
	}
	if v, ok := lookup("RIPP_NETWORK_INFERENCE"); !ok || (v != "1" && v != "true") {
		return false, "RIPP_NETWORK_INFERENCE is not enabled in this session"
	}
	if v, ok := lookup("OPENAI_API_KEY"); !ok || v == "" {
		return false, "OPENAI_API_KEY is not set"
	}
	return true, ""
}
