package network

import "fmt"

// Keeps track of the network types
// That the deployer supports.
//
// Refer to the constants
type NetworkType string

const (
	EVM       NetworkType = "evm"       // remote EVM based blockchains
	SIMULATED NetworkType = "simulated" // in-process EVM chain, the dry run
	NATIVE    NetworkType = "native"    // in-memory chain hosting the Go contracts
)

// NewNetworkType from given string
func NewNetworkType(network_type string) (NetworkType, error) {
	new_type := NetworkType(network_type)
	if !new_type.valid() {
		return new_type, fmt.Errorf("unsupported network type %s", network_type)
	}

	return new_type, nil
}

// Whether the given flag is valid Network Flag or not.
func (network_type NetworkType) valid() bool {
	return network_type == EVM || network_type == SIMULATED || network_type == NATIVE
}

// Ephemeral networks live in the process and need no providers
func (network_type NetworkType) Ephemeral() bool {
	return network_type == SIMULATED || network_type == NATIVE
}

// String format of NetworkType
func (network_type NetworkType) String() string {
	return string(network_type)
}
