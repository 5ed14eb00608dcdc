package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/r00tm4st3r/Split-Targets/internal/domain"
	"github.com/r00tm4st3r/Split-Targets/internal/split"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Input        string   `yaml:"-"`
	DryRun       bool     `yaml:"-"`
	LinesPerFile int      `yaml:"lines"`
	StartIndex   int      `yaml:"start"`
	Exclude      []string `yaml:"exclude"`
	OutputDir    string   `yaml:"output_dir"`
	CrossChunk   bool     `yaml:"cross_chunk_dedup"`

	// Relocation answers; empty means ask interactively.
	Dest string `yaml:"dest"`
	Mode string `yaml:"mode"`

	NoColor  bool `yaml:"no_color"`
	Progress bool `yaml:"progress"`
	Verbose  bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		LinesPerFile: split.DefaultLinesPerFile,
		StartIndex:   split.DefaultStartIndex,
		Exclude:      append([]string(nil), domain.DefaultPrefixes...),
		CrossChunk:   true,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load builds a Config from defaults, the YAML file at path (or
// SPLIT_TARGETS_CONFIG when path is empty) and SPLIT_TARGETS_* variables,
// in that order. Flags are applied by the caller.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = getenv("SPLIT_TARGETS_CONFIG", "")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if v := getenv("SPLIT_TARGETS_LINES", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: SPLIT_TARGETS_LINES=%q: %v", ErrInvalid, v, err)
		}
		cfg.LinesPerFile = n
	}
	if v := getenv("SPLIT_TARGETS_START", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: SPLIT_TARGETS_START=%q: %v", ErrInvalid, v, err)
		}
		cfg.StartIndex = n
	}
	if v := getenv("SPLIT_TARGETS_EXCLUDE", ""); v != "" {
		cfg.Exclude = domain.ParsePrefixes(v)
	}
	cfg.OutputDir = getenv("SPLIT_TARGETS_OUTPUT_DIR", cfg.OutputDir)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	// Same normalisation as -x: "23" becomes "23.".
	if c.Exclude != nil {
		c.Exclude = domain.ParsePrefixes(strings.Join(c.Exclude, ","))
	}
	return nil
}

// Validate checks the fields a run depends on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input file is required", ErrInvalid)
	}
	if c.LinesPerFile < 1 {
		return fmt.Errorf("%w: lines per file must be >= 1, got %d", ErrInvalid, c.LinesPerFile)
	}
	switch strings.ToLower(c.Mode) {
	case "", "copy", "move":
	default:
		return fmt.Errorf("%w: mode must be copy or move, got %q", ErrInvalid, c.Mode)
	}
	return nil
}

// SplitOptions maps the config onto a split run.
func (c Config) SplitOptions() split.Options {
	return split.Options{
		Input:        c.Input,
		LinesPerFile: c.LinesPerFile,
		StartIndex:   c.StartIndex,
		Exclusions:   domain.NewExclusions(c.Exclude),
		DryRun:       c.DryRun,
		OutputDir:    c.OutputDir,
		CrossChunk:   c.CrossChunk,
	}
}
