// Package config holds the settings of a helixtube run: the default helix
// and width policy, the mesh mode, how meshes are computed and checked,
// the log level and the output file.
// Settings come from Default(), then an optional YAML file, then
// HELIXTUBE_* environment variables; the CLI applies its flags last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazu/helixtube/pkg/curve"
	"github.com/chazu/helixtube/pkg/sweep"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HELIXTUBE_"

// Config is the full set of run settings.
type Config struct {
	Helix    curve.Helix        `yaml:"helix"`
	Width    sweep.WidthProfile `yaml:"width"`
	Mode     sweep.Mode         `yaml:"mode"`
	Parallel bool               `yaml:"parallel"`
	Workers  int                `yaml:"workers"`
	Manifold bool               `yaml:"manifold"`
	LogLevel string             `yaml:"log_level"`
	Output   string             `yaml:"output,omitempty"`
	Script   string             `yaml:"script,omitempty"`
}

// Default returns the stock settings: a 20-vertex helix of radius 4 and
// pitch 0.5, width 0.5 tapering by 0.025 per segment, one mesh per cell.
func Default() Config {
	return Config{
		Helix:    curve.DefaultHelix(),
		Width:    sweep.WidthProfile{Start: 0.5, Decrement: 0.025},
		Mode:     sweep.ModeCells,
		LogLevel: "info",
	}
}

// Load reads a YAML file over Default(). Keys missing from the file keep
// their defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.decode(data); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes c to path, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyEnv overrides c from HELIXTUBE_* variables. Unset or empty
// variables leave the field alone; a malformed value is an error.
func (c *Config) ApplyEnv() error {
	var errs []error
	envFloat("RADIUS", &c.Helix.Radius, &errs)
	envFloat("PITCH", &c.Helix.Pitch, &errs)
	envInt("COUNT", &c.Helix.Count, &errs)
	envFloat("START_WIDTH", &c.Width.Start, &errs)
	envFloat("WIDTH_DECREMENT", &c.Width.Decrement, &errs)
	envInt("WORKERS", &c.Workers, &errs)
	envBool("PARALLEL", &c.Parallel, &errs)
	envBool("MANIFOLD", &c.Manifold, &errs)
	if v := getEnv("MODE"); v != "" {
		if err := c.Mode.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("%sMODE: %w", EnvPrefix, err))
		}
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("OUTPUT"); v != "" {
		c.Output = v
	}
	if v := getEnv("SCRIPT"); v != "" {
		c.Script = v
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func envFloat(key string, dst *float64, errs *[]error) {
	v := getEnv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return
	}
	*dst = f
}

func envInt(key string, dst *int, errs *[]error) {
	v := getEnv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return
	}
	*dst = n
}

func envBool(key string, dst *bool, errs *[]error) {
	v := getEnv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return
	}
	*dst = b
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Validate checks the settings a run depends on.
func (c Config) Validate() error {
	var errs []error
	if err := c.Width.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Helix.Count < 2 {
		errs = append(errs, fmt.Errorf("helix count %d: need at least 2 points", c.Helix.Count))
	}
	if c.Helix.Radius == 0 {
		errs = append(errs, errors.New("helix radius 0 puts every point on the Y axis"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d: must be >= 0", c.Workers))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
