// ABOUTME: Collector configuration and YAML loading
// ABOUTME: Selects the collection policy and its initial heap-size ceiling

package heap

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/inhies/go-bytesize"
	"gopkg.in/yaml.v2"
)

// Policy decides when Collect performs a full cycle
type Policy int

const (
	// PolicyAlways runs a full cycle on every Collect call. Populations stay
	// small, which makes the heap easy to inspect.
	PolicyAlways Policy = iota

	// PolicyThreshold skips Collect while the estimated heap size is below a
	// ceiling. The ceiling doubles whenever a cycle cannot get under it.
	PolicyThreshold
)

// String returns the policy name used in config files
func (p Policy) String() string {
	switch p {
	case PolicyAlways:
		return "always"
	case PolicyThreshold:
		return "threshold"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a policy name as written in config files
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "always", "":
		return PolicyAlways, nil
	case "threshold":
		return PolicyThreshold, nil
	}
	return 0, fmt.Errorf("unknown collection policy %q", s)
}

// DefaultThreshold is the starting ceiling for PolicyThreshold
const DefaultThreshold = 1 * bytesize.MB

// Config configures a Heap
type Config struct {
	Policy           Policy
	InitialThreshold bytesize.ByteSize
	Stats            bool         // log cycle summaries at Info instead of Debug
	Logger           *slog.Logger // nil means slog.Default()
}

// DefaultConfig collects on every call
func DefaultConfig() Config {
	return Config{
		Policy:           PolicyAlways,
		InitialThreshold: DefaultThreshold,
	}
}

// fileConfig is the YAML form of Config
type fileConfig struct {
	Policy           string `yaml:"policy"`
	InitialThreshold string `yaml:"initial_threshold"`
	Stats            bool   `yaml:"stats"`
}

// LoadConfig reads a YAML configuration. Missing keys keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Policy, err = ParsePolicy(fc.Policy); err != nil {
		return cfg, err
	}
	if fc.InitialThreshold != "" {
		size, err := bytesize.Parse(fc.InitialThreshold)
		if err != nil {
			return cfg, fmt.Errorf("invalid initial_threshold %q: %w", fc.InitialThreshold, err)
		}
		if size < bytesize.B {
			return cfg, fmt.Errorf("initial_threshold must be at least 1B, got %s", size)
		}
		cfg.InitialThreshold = size
	}
	cfg.Stats = fc.Stats

	return cfg, nil
}

// LoadConfigFile reads a YAML configuration from path
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), err
	}
	defer f.Close()
	return LoadConfig(f)
}
