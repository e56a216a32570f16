package provider

// Provider is the Url wrapper to the remote
// blockchain node.
//
// The Provider is not responsible for connecting.
// Refer to blockchain/evm/client
type Provider struct {
	Url string `json:"url" yaml:"url"`
}
