// Package config loads simulator settings from YAML and validates them.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/jeongseonghan/bersim/internal/channel"
	"github.com/jeongseonghan/bersim/internal/fec"
	"github.com/jeongseonghan/bersim/internal/modem"
	"github.com/jeongseonghan/bersim/internal/sim"
	"github.com/jeongseonghan/bersim/internal/source"
)

// Config mirrors the command-line options. Selector fields hold the short
// names accepted on the command line.
type Config struct {
	Source     string    `yaml:"source"`
	FEC        string    `yaml:"fec"`
	Modulation string    `yaml:"modulation"`
	Channel    string    `yaml:"channel"`
	Error      string    `yaml:"error"`
	Units      string    `yaml:"units"`
	HSquare    sim.Sweep `yaml:"hsquare"`
	Iterations int       `yaml:"iterations"`
	Workers    int       `yaml:"workers"` // 0 = GOMAXPROCS
	Seed       uint64    `yaml:"seed"`    // 0 = derive from the clock
	Quiet      bool      `yaml:"quiet"`
	Output     string    `yaml:"output"` // parquet file, empty to skip
	Listen     string    `yaml:"listen"` // HTTP address, empty to skip
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Source:     source.Random.Name(),
		FEC:        fec.None.Name(),
		Modulation: modem.ASK.Name(),
		Channel:    channel.AWGN.Name(),
		Error:      sim.BER.Name(),
		Units:      sim.Decibels.Name(),
		HSquare:    sim.DefaultSweep,
		Iterations: sim.DefaultIterations,
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem by name.
func (c Config) Validate() error {
	if _, err := c.Sim(); err != nil {
		return err
	}
	if err := c.HSquare.Validate(); err != nil {
		return fmt.Errorf("hsquare: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	return nil
}

// Sim converts the selector names to a sim.Config.
func (c Config) Sim() (sim.Config, error) {
	var out sim.Config
	var err error
	if out.Source, err = source.ParseKind(c.Source); err != nil {
		return out, fmt.Errorf("source: %w", err)
	}
	if out.FEC, err = fec.ParseScheme(c.FEC); err != nil {
		return out, fmt.Errorf("fec: %w", err)
	}
	if out.Modulation, err = modem.ParseModulation(c.Modulation); err != nil {
		return out, fmt.Errorf("modulation: %w", err)
	}
	if out.Channel, err = channel.ParseModel(c.Channel); err != nil {
		return out, fmt.Errorf("channel: %w", err)
	}
	if out.Error, err = sim.ParseErrorKind(c.Error); err != nil {
		return out, fmt.Errorf("error: %w", err)
	}
	if out.Units, err = sim.ParseUnits(c.Units); err != nil {
		return out, fmt.Errorf("units: %w", err)
	}
	out.Iterations = c.Iterations
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// EffectiveWorkers resolves a zero worker count to GOMAXPROCS.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
