package network

import (
	"errors"
	"fmt"
	"os"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"gopkg.in/yaml.v3"
)

type Networks []*Network

// The layout of the networks file
type networksFile struct {
	Networks []map[string]interface{} `yaml:"networks"`
}

// Whether the network with network_id exists in the networks list
func (networks Networks) Exist(network_id string) bool {
	for _, network := range networks {
		if network.Id == network_id {
			return true
		}
	}

	return false
}

// parses list of key value objects into the list of Networks.
// The network ids must be unique.
func NewNetworks(raw_networks []key_value.KeyValue) (Networks, error) {
	networks := make(Networks, 0, len(raw_networks))

	for i, raw := range raw_networks {
		network, err := New(raw)
		if err != nil {
			return nil, fmt.Errorf("raw_networks[%d] New: %w", i, err)
		}
		if networks.Exist(network.Id) {
			return nil, fmt.Errorf("raw_networks[%d] duplicate '%s' network", i, network.Id)
		}

		networks = append(networks, network)
	}

	return networks, nil
}

// Returns the Network from the list of networks by its network_id
func (networks Networks) Get(network_id string) (*Network, error) {
	for _, network := range networks {
		if network.Id == network_id {
			return network, nil
		}
	}

	return nil, fmt.Errorf("'%s' not found", network_id)
}

// Ids of the networks in the listed order
func (networks Networks) Ids() []string {
	ids := make([]string, len(networks))
	for i, network := range networks {
		ids[i] = network.Id
	}
	return ids
}

// Ephemeral networks that are always available.
// The network id is the same as the type.
func Ephemeral() Networks {
	return Networks{
		{Id: SIMULATED.String(), Type: SIMULATED},
		{Id: NATIVE.String(), Type: NATIVE},
	}
}

// Parse the YAML document with the list of networks
func Parse(data []byte) (Networks, error) {
	var file networksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	raw_networks := make([]key_value.KeyValue, len(file.Networks))
	for i, raw := range file.Networks {
		raw_networks[i] = key_value.New(raw)
	}

	return NewNetworks(raw_networks)
}

// LoadNetworks from the YAML file along with the ephemeral networks.
// The missing file is not an error, then only the ephemeral networks are returned.
// The file can override the ephemeral network by using its id.
func LoadNetworks(path string) (Networks, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Ephemeral(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", path, err)
	}

	networks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Parse(%s): %w", path, err)
	}

	for _, ephemeral := range Ephemeral() {
		if !networks.Exist(ephemeral.Id) {
			networks = append(networks, ephemeral)
		}
	}

	return networks, nil
}
