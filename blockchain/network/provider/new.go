package provider

import (
	"fmt"
	"net/url"

	"github.com/blocklords/lottery/common/data_type/key_value"
)

// The protocols that the ethclient can dial
var protocols = []string{"http", "https", "ws", "wss"}

// New provider from the key value object
func New(data key_value.KeyValue) (Provider, error) {
	raw_url, err := data.GetString("url")
	if err != nil {
		return Provider{}, fmt.Errorf("getting 'url' parameter: %w", err)
	}

	u, err := url.ParseRequestURI(raw_url)
	if err != nil {
		return Provider{}, fmt.Errorf("invalid '%s' provider url: %w", raw_url, err)
	}

	supported := false
	for _, protocol := range protocols {
		if u.Scheme == protocol {
			supported = true
			break
		}
	}
	if !supported {
		return Provider{}, fmt.Errorf("invalid '%s' provider protocol. Expected one of %v. But given '%s'", raw_url, protocols, u.Scheme)
	}

	return Provider{Url: raw_url}, nil
}

// Create the list of providers from the given key value list
func NewList(datas []key_value.KeyValue) ([]Provider, error) {
	providers := make([]Provider, len(datas))

	for i, data := range datas {
		provider, err := New(data)
		if err != nil {
			return nil, fmt.Errorf("converting '%v' to provider: %w", data, err)
		}

		providers[i] = provider
	}

	return providers, nil
}
