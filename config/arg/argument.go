// Package arg is used to read command line arguments of the application.
package arg

import (
	"fmt"
	"os"
	"strings"
)

// List of the deployer flags
const (
	Secure  = "secure"  // If passed, then the mnemonic is read from the vault. Default is false
	Network = "network" // The network id from the networks file, for example --network=sepolia
	Debug   = "debug"   // If passed, then the debug messages are printed
)

// GetEnvPaths any command line data that ends with .env and has no '--' prefix
// is the path to the environment file.
// Relative paths are resolved from the working directory.
func GetEnvPaths() []string {
	args := os.Args[1:]
	if len(args) == 0 {
		return []string{}
	}

	paths := make([]string, 0)

	for _, arg := range args {
		if len(arg) < 4 {
			continue
		}

		if !strings.HasSuffix(arg, ".env") {
			continue
		}

		if strings.HasPrefix(arg, "--") {
			continue
		}

		paths = append(paths, arg)
	}

	return paths
}

// GetArguments Load arguments, not the environment variable paths.
// Arguments starts with '--'
func GetArguments() []string {
	args := os.Args[1:]
	if len(args) == 0 {
		return []string{}
	}

	parameters := make([]string, 0)

	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			parameters = append(parameters, arg[2:])
		}
	}

	return parameters
}

// Exist This function is same as `arg.Has`,
// except `arg.Exist()` loads arguments automatically.
func Exist(argument string) bool {
	return Has(GetArguments(), argument)
}

// ExtractValue Extracts the value of the arg if it has.
// The arg value comes after "=".
//
// If the arg doesn't exist, then returns an error.
// Therefore, you should check for the arg existence by calling `arg.Exist()`
func ExtractValue(arguments []string, required string) (string, error) {
	found := ""
	for _, argument := range arguments {
		// doesn't have a value
		if argument == required {
			continue
		}

		if strings.HasPrefix(argument, required+"=") {
			found = argument
			break
		}
	}

	value, err := getValue(found)
	if err != nil {
		return "", fmt.Errorf("getValue for %s arg: %w", required, err)
	}

	return value, nil
}

// Value Extracts the value of the command line arg if it exists.
func Value(name string) (string, error) {
	return ExtractValue(GetArguments(), name)
}

// getValue Extracts the value of the arg.
// Argument comes after '='
func getValue(argument string) (string, error) {
	parts := strings.SplitN(argument, "=", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("strings.split(`%s`) should has two parts", argument)
	}

	if len(parts[1]) == 0 {
		return "", fmt.Errorf("value of --%s is empty", parts[0])
	}
	return parts[1], nil
}

// Has checks is the required arg exists among arguments or not.
func Has(arguments []string, required string) bool {
	for _, argument := range arguments {
		if argument == required {
			return true
		}

		if strings.HasPrefix(argument, required+"=") {
			return true
		}
	}

	return false
}
