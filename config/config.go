// Package config defines a configuration engine for the deployer.
//
// The configuration features:
//   - reads the command line arguments for the app such as the vault enabled or not.
//   - automatically loads the environment variables files.
//   - allows setting default variables if user didn't define them.
package config

import (
	"fmt"

	"github.com/blocklords/lottery/config/arg"
	"github.com/blocklords/lottery/config/env"
	"github.com/blocklords/lottery/log"
	"github.com/spf13/viper"
)

// Config Configuration Engine based on viper.Viper
type Config struct {
	viper *viper.Viper // used to keep default values

	Secure bool        // Passed as --secure command line argument. If its passed then the secrets are read from the vault.
	logger *log.Logger // debug purpose only
}

// New creates a global configuration for the entire application.
//
// Automatically reads the command line arguments.
// Loads the environment variables.
func New(parent *log.Logger) (*Config, error) {
	logger := parent.Child("config")
	logger.Info("Reading command line arguments for application parameters")

	// First we check the parameters of the application arguments
	arguments := arg.GetArguments()

	conf := Config{
		Secure: arg.Has(arguments, arg.Secure),
		logger: logger,
	}
	logger.Info("Loading environment files passed as app arguments")

	// First we load the environment variables
	err := env.LoadAnyEnv()
	if err != nil {
		return nil, fmt.Errorf("env.LoadAnyEnv: %w", err)
	}

	logger.Info("Starting Viper with environment variables")

	// replace the values with the ones we fetched from environment variables
	conf.viper = viper.New()
	conf.viper.AutomaticEnv()

	return &conf, nil
}

// SetDefaults sets the default configuration parameters.
// The parameter with the nil value is required from the user.
func (config *Config) SetDefaults(default_config DefaultConfig) {
	config.logger.Info("Set the default config parameters for", "title", default_config.Title)

	for name, value := range default_config.Parameters {
		if value == nil {
			continue
		}
		config.SetDefault(name, value)
	}
}

// SetDefault sets the default configuration name to the value
func (config *Config) SetDefault(name string, value interface{}) {
	config.viper.SetDefault(name, value)
}

// Exist checks whether the configuration variable exists or not
// If the configuration exists or its default value exists, then returns true.
func (config *Config) Exist(name string) bool {
	value := config.viper.GetString(name)
	return len(value) > 0
}

// Require returns an error listing the required parameters that are missing.
func (config *Config) Require(default_config DefaultConfig) error {
	for name, value := range default_config.Parameters {
		if value != nil {
			continue
		}
		if !config.Exist(name) {
			return fmt.Errorf("missing '%s' parameter of %s", name, default_config.Title)
		}
	}

	return nil
}

// GetString returns the configuration parameter as a string
func (config *Config) GetString(name string) string {
	value := config.viper.GetString(name)
	return value
}

// GetUint64 returns the configuration parameter as an unsigned 64 bit number
func (config *Config) GetUint64(name string) uint64 {
	value := config.viper.GetUint64(name)
	return value
}

// GetBool returns the configuration parameter as a boolean
func (config *Config) GetBool(name string) bool {
	value := config.viper.GetBool(name)
	return value
}
