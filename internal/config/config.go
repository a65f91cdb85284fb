// Package config loads CLI configuration from a chain of optional JSON(-ish)
// files plus explicit overrides, the way the store engine itself never
// does: [kvs.Open] takes an explicit directory and [kvs.Options] and reads
// no files of its own. Config loading is purely a concern of the CLI layer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds the options the CLI derives from config files and flags.
type Config struct {
	DataDir             string `json:"data_dir,omitempty"`
	CompactionThreshold int64  `json:"compaction_threshold,omitempty"`
}

// Sources tracks which config files, if any, contributed to the final
// Config, for diagnostic output.
type Sources struct {
	Global  string
	Project string
}

// Default returns the built-in configuration, before any file or flag is
// applied.
func Default() Config {
	return Config{
		DataDir: ".",
	}
}

// FileName is the default project config file name, looked up in the
// working directory when --config is not given.
const FileName = ".kvs.json"

// globalConfigPath returns $XDG_CONFIG_HOME/kvs/config.json, falling back
// to ~/.config/kvs/config.json. Returns "" if neither can be determined.
func globalConfigPath(env map[string]string) string {
	if xdg, ok := env["XDG_CONFIG_HOME"]; ok && xdg != "" {
		return filepath.Join(xdg, "kvs", "config.json")
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kvs", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "kvs", "config.json")
}

// Overrides carries CLI flag values; HasDataDir/HasCompactionThreshold
// distinguish "flag not given" from "flag given its zero value".
type Overrides struct {
	DataDir                string
	HasDataDir             bool
	CompactionThreshold    int64
	HasCompactionThreshold bool
}

// Load resolves configuration with the following precedence, lowest to
// highest: built-in defaults, global user config, project config (or an
// explicit --config path), CLI flag overrides.
func Load(workDir, configPath string, overrides Overrides, env map[string]string) (Config, Sources, error) {
	cfg := Default()

	var sources Sources

	globalCfg, globalPath, err := loadGlobal(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if overrides.HasDataDir {
		cfg.DataDir = overrides.DataDir
	}

	if overrides.HasCompactionThreshold {
		cfg.CompactionThreshold = overrides.CompactionThreshold
	}

	if err := validate(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["data_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", errInvalid, path, ErrDataDirEmpty)
	}

	return cfg, path, nil
}

func loadProject(workDir, configPath string) (Config, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		if _, err := os.Stat(path); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["data_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", errInvalid, path, ErrDataDirEmpty)
	}

	return cfg, path, nil
}

// loadFile reads and parses a config file. If mustExist is false, a missing
// file is not an error; it simply yields loaded=false.
func loadFile(path string, mustExist bool) (cfg Config, explicitEmpty map[string]bool, loaded bool, err error) {
	data, readErr := os.ReadFile(path) //nolint:gosec // path is caller-controlled, not attacker input
	if readErr != nil {
		if os.IsNotExist(readErr) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", errFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", errInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

// parse standardizes JSON-with-comments into strict JSON before unmarshalling,
// so config files may carry comments and trailing commas.
func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["data_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["data_dir"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.CompactionThreshold != 0 {
		base.CompactionThreshold = overlay.CompactionThreshold
	}

	return base
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return ErrDataDirEmpty
	}

	return nil
}

// Format returns cfg as indented JSON, for a future "print effective config"
// subcommand.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
