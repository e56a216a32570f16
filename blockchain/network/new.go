package network

import (
	"fmt"

	"github.com/blocklords/lottery/blockchain/network/provider"
	"github.com/blocklords/lottery/common/data_type/key_value"
)

// New Network from the key value object.
// The EVM network requires atleast one provider.
func New(raw key_value.KeyValue) (*Network, error) {
	id, err := raw.GetString("id")
	if err != nil {
		return nil, fmt.Errorf("getting 'id' parameter: %w", err)
	}
	if len(id) == 0 {
		return nil, fmt.Errorf("the 'id' parameter is empty")
	}

	raw_network_type, err := raw.GetString("type")
	if err != nil {
		return nil, fmt.Errorf("getting 'type' parameter: %w", err)
	}

	network_type, err := NewNetworkType(raw_network_type)
	if err != nil {
		return nil, fmt.Errorf("converting 'type' parameter: %w", err)
	}

	providers := []provider.Provider{}
	if raw.Exist("providers") == nil {
		raw_providers, err := raw.GetKeyValueList("providers")
		if err != nil {
			return nil, fmt.Errorf("getting 'providers' parameter: %w", err)
		}
		providers, err = provider.NewList(raw_providers)
		if err != nil {
			return nil, fmt.Errorf("converting 'providers' parameter: %w", err)
		}
	}
	if network_type == EVM && len(providers) == 0 {
		return nil, fmt.Errorf("atleast one provider should be given for '%s' network", id)
	}

	return &Network{
		Id:        id,
		Providers: providers,
		Type:      network_type,
	}, nil
}
