package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the worker.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr       string `json:"addr" yaml:"addr" toml:"addr"`
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir" toml:"scratch_dir"`
	WeightsDir string `json:"weights_dir" yaml:"weights_dir" toml:"weights_dir"`
	// Download weights at startup instead of on the first job.
	EagerWeights bool `json:"eager_weights" yaml:"eager_weights" toml:"eager_weights"`
	// Model hub base URL for weight downloads.
	HubURL string `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	// Python interpreter and runner script for the generation runtime.
	Python       string `json:"python" yaml:"python" toml:"python"`
	RunnerScript string `json:"runner_script" yaml:"runner_script" toml:"runner_script"`
	RunnerDir    string `json:"runner_dir" yaml:"runner_dir" toml:"runner_dir"`
	// Per-job execution timeout in seconds (0 = package default).
	ExecTimeoutSeconds int `json:"exec_timeout_seconds" yaml:"exec_timeout_seconds" toml:"exec_timeout_seconds"`
	MaxQueueDepth      int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitSeconds     int `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	// Request body cap in bytes for POST /run.
	MaxBodyBytes  int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	DefaultPrompt string `json:"default_prompt" yaml:"default_prompt" toml:"default_prompt"`
	// Target audio sample rate handed to the generator.
	SampleRate int    `json:"sample_rate" yaml:"sample_rate" toml:"sample_rate"`
	FFmpegPath string `json:"ffmpeg_path" yaml:"ffmpeg_path" toml:"ffmpeg_path"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
