// Package cliconfig loads the optional per-user settings file. Everything
// in it has a default, so a missing file is not an error.
package cliconfig

import (
	"os"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"

	"github.com/blackowiak/blackowiak-llm/pkg/activation"
	"github.com/blackowiak/blackowiak-llm/pkg/cfgdir"
	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

type Config struct {
	// LogLevel overrides logrus's default level ("debug" exposes the
	// swallowed metering failures).
	LogLevel string `json:"log_level"`

	// LicenseFile overrides where the activation record lives. Mostly
	// useful for support sessions inspecting a copied record.
	LicenseFile string `json:"license_file"`
}

func Load() (Config, error) {
	return LoadFrom(cfgdir.Expand("config.yaml"))
}

func LoadFrom(path string) (Config, error) {
	var config Config
	configYAML, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, errors.WithContext("read config", err)
	}

	if err := yaml.Unmarshal(configYAML, &config); err != nil {
		return config, errors.WithContext("parse config", err)
	}

	if config.LogLevel != "" {
		level, err := log.ParseLevel(config.LogLevel)
		if err != nil {
			return config, errors.WithContext("parse log level", err)
		}
		log.SetLevel(level)
	}
	return config, nil
}

// Store returns the activation store the commands should operate on.
func (config Config) Store() *activation.Store {
	if config.LicenseFile != "" {
		return activation.NewStoreAt(config.LicenseFile)
	}
	return activation.NewStore()
}
