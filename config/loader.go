package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

const (
	DefaultPort                = 16181
	DefaultSubject             = "v2x.decoded"
	DefaultReconnectWaitMS     = 2000
	DefaultVehicleMaxAgeMS     = 5000
	DefaultSweepIntervalMS     = 1000
	DefaultCertificateMaxAgeMS = 3600000
	DefaultPathHistoryLength   = 40
	DefaultTransitReadMS       = 10000
	DefaultTransitTimeoutMS    = 5000
	DefaultTransitStationBase  = 0xF000_0000
)

// LoadAppConfig loads and validates the application configuration from the
// first readable path, defaulting to config.yml.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"config.yml", "./config/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load reads and validates a single configuration file.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks every section against its struct tags.
func (c AppConfig) Validate() error {
	v := validator.New()
	sections := []struct {
		name string
		s    any
	}{
		{"server", c.Server},
		{"broker", c.Broker},
		{"store", c.Store},
		{"area", c.Area},
		{"center", c.Center},
		{"transit", c.Transit},
	}
	for _, sec := range sections {
		if err := v.Struct(sec.s); err != nil {
			return fmt.Errorf("invalid %s config: %w", sec.name, err)
		}
	}
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Broker.Subject == "" {
		c.Broker.Subject = DefaultSubject
	}
	if c.Broker.ReconnectWaitMS == 0 {
		c.Broker.ReconnectWaitMS = DefaultReconnectWaitMS
	}
	if c.Store.VehicleMaxAgeMS == 0 {
		c.Store.VehicleMaxAgeMS = DefaultVehicleMaxAgeMS
	}
	if c.Store.SweepIntervalMS == 0 {
		c.Store.SweepIntervalMS = DefaultSweepIntervalMS
	}
	if c.Store.CertificateMaxAgeMS == 0 {
		c.Store.CertificateMaxAgeMS = DefaultCertificateMaxAgeMS
	}
	if c.Store.PathHistoryLength == 0 {
		c.Store.PathHistoryLength = DefaultPathHistoryLength
	}
	if c.Transit.ReadIntervalMS == 0 {
		c.Transit.ReadIntervalMS = DefaultTransitReadMS
	}
	if c.Transit.TimeoutMS == 0 {
		c.Transit.TimeoutMS = DefaultTransitTimeoutMS
	}
	if c.Transit.StationIDBase == 0 {
		c.Transit.StationIDBase = DefaultTransitStationBase
	}
}
