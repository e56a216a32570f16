// Package env was created for one purpose only: LoadAnyEnv
package env

import (
	"fmt"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/blocklords/lottery/config/arg"
	"github.com/joho/godotenv"
)

// LoadAnyEnv gets the list of all .env file paths in the command line arg.
// Then loads them up to the application's environment variables.
//
// The values later will be available via config.Config.
func LoadAnyEnv() error {
	opts := arg.GetEnvPaths()
	if len(opts) == 0 {
		return nil
	}

	err := godotenv.Load(opts...)
	if err != nil {
		return fmt.Errorf("godotenv.Load for paths %v: %w", opts, err)
	}
	return nil
}

// WriteEnv writes the given key value to the file.
// If the file exists, then it will be truncated.
func WriteEnv(data key_value.KeyValue, path string) error {
	err := godotenv.Write(data.MapString(), path)
	if err != nil {
		return fmt.Errorf("godotenv.Write: %w", err)
	}

	return nil
}
