// Package config holds the YAML configuration shared by the programs.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Pins names the GPIOs wired to the panel, as understood by gpioreg.ByName.
type Pins struct {
	DC          string `yaml:"dc"`
	CSMain      string `yaml:"cs_main"`
	CSSecondary string `yaml:"cs_secondary"`
	Busy        string `yaml:"busy"`
	RST         string `yaml:"rst,omitempty"`   // empty when not wired
	Power       string `yaml:"power,omitempty"` // empty when not wired
}

// SPI selects the bus the panel is on.
type SPI struct {
	Port string `yaml:"port"` // spireg name, empty for the first port
}

// Config is the panel wiring and the converter settings.
type Config struct {
	Pins        Pins          `yaml:"pins"`
	SPI         SPI           `yaml:"spi,omitempty"`
	BusyTimeout time.Duration `yaml:"busy_timeout,omitempty"`

	// Output directory of epdconvert
	OutDir  string `yaml:"out_dir,omitempty"`
	Preview bool   `yaml:"preview,omitempty"`
}

// Default is the wiring of the Waveshare 13.3" E6 HAT on a Raspberry Pi.
func Default() *Config {
	return &Config{
		Pins: Pins{
			DC:          "GPIO25",
			CSMain:      "GPIO8",
			CSSecondary: "GPIO7",
			Busy:        "GPIO24",
			RST:         "GPIO17",
			Power:       "GPIO18",
		},
		BusyTimeout: time.Minute,
	}
}

// Load reads path on top of Default, so a file only needs the fields it
// changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
