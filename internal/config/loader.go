package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "wavesim.yaml"

// Load loads the simulation configuration. Fields missing from the file keep
// their default values.
// Search order: customPath -> ~/.wavesim/configs/wavesim.yaml -> ./configs/wavesim.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if parsed, ok := tryLoad(userCfgPath); ok {
			return parsed, nil
		}
	}

	// Try local configs directory
	if parsed, ok := tryLoad(filepath.Join("configs", FileName)); ok {
		return parsed, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Missing or broken files are skipped.
func tryLoad(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wavesim", "configs", filename)
}

// Marshal renders the configuration as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Environment variables that override config values.
const (
	EnvTickRate     = "WAVESIM_TICK_RATE"
	EnvMaxCompute   = "WAVESIM_MAX_COMPUTE"
	EnvTimeScale    = "WAVESIM_TIME_SCALE"
	EnvAirDrag      = "WAVESIM_AIR_DRAG"
	EnvFrictionDrag = "WAVESIM_FRICTION_DRAG"
	EnvWaveSpeed    = "WAVESIM_WAVE_SPEED"
)

// EnvKeys lists every recognised override variable.
var EnvKeys = []string{
	EnvTickRate,
	EnvMaxCompute,
	EnvTimeScale,
	EnvAirDrag,
	EnvFrictionDrag,
	EnvWaveSpeed,
}

// LoadEnv reads .env style files and merges them with the process
// environment, which wins. Missing files are skipped.
func LoadEnv(files ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
		maps.Copy(env, vars)
	}
	for _, key := range EnvKeys {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides config values from env. Unparseable values are reported
// together and leave the config untouched.
func ApplyEnv(cfg *Config, env map[string]string) error {
	next := *cfg
	targets := map[string]*float64{
		EnvTickRate:     &next.Scheduler.TickRate,
		EnvMaxCompute:   &next.Scheduler.MaxComputeSeconds,
		EnvTimeScale:    &next.Scheduler.TimeScale,
		EnvAirDrag:      &next.World.AirDrag,
		EnvFrictionDrag: &next.World.FrictionDrag,
		EnvWaveSpeed:    &next.Surface.WaveSpeed,
	}

	var errs []error
	for _, key := range EnvKeys {
		raw, ok := env[key]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", key, raw, err))
			continue
		}
		*targets[key] = v
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: bad environment override: %w", errors.Join(errs...))
	}
	*cfg = next
	return nil
}
