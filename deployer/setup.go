package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/blocklords/lottery/blockchain/evm/client"
	"github.com/blocklords/lottery/blockchain/evm/simulated"
	"github.com/blocklords/lottery/blockchain/native"
	"github.com/blocklords/lottery/blockchain/network"
	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/blocklords/lottery/config"
	"github.com/blocklords/lottery/config/arg"
	"github.com/blocklords/lottery/log"
	"github.com/blocklords/lottery/lottery"
	"github.com/blocklords/lottery/security"
	"github.com/blocklords/lottery/wallet"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

const (
	NETWORKS_PATH    = "LOTTERY_NETWORKS_PATH"
	NETWORK_ID       = "LOTTERY_NETWORK_ID"
	ARTIFACT_PATH    = "LOTTERY_ARTIFACT_PATH"    // empty means the bundled lottery
	CONSTRUCTOR_ARGS = "LOTTERY_CONSTRUCTOR_ARGS" // comma separated or ["a", "b"]
	GAS_LIMIT        = "LOTTERY_GAS_LIMIT"
	ACCOUNTS         = "LOTTERY_ACCOUNTS" // derived from the mnemonic
)

// DeployerConfigurations are the default parameters of the deployer
var DeployerConfigurations = config.DefaultConfig{
	Title: "Deployer",
	Parameters: key_value.New(map[string]interface{}{
		NETWORKS_PATH:    "networks.yml",
		NETWORK_ID:       network.SIMULATED.String(),
		ARTIFACT_PATH:    "",
		CONSTRUCTOR_ARGS: "",
		GAS_LIMIT:        blockchain.DEFAULT_GAS_LIMIT,
		ACCOUNTS:         1,
	}),
}

// Run the deployment as configured.
// Returns the address of the deployed contract.
func Run(ctx context.Context, app_config *config.Config, logger *log.Logger) (common.Address, error) {
	app_config.SetDefaults(DeployerConfigurations)

	selected, err := Network(app_config)
	if err != nil {
		return common.Address{}, fmt.Errorf("Network: %w", err)
	}
	logger.Info("network selected", "id", selected.Id, "type", selected.Type)

	artifact, err := Artifact(app_config)
	if err != nil {
		return common.Address{}, fmt.Errorf("Artifact: %w", err)
	}

	raw_args, err := ConstructorArguments(app_config)
	if err != nil {
		return common.Address{}, fmt.Errorf("ConstructorArguments: %w", err)
	}
	args, err := artifact.ConstructorArguments(raw_args)
	if err != nil {
		return common.Address{}, fmt.Errorf("artifact.ConstructorArguments: %w", err)
	}

	chain, err := Connect(ctx, app_config, selected, logger)
	if err != nil {
		return common.Address{}, fmt.Errorf("Connect: %w", err)
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logger.Warn("client.Close", "error", err)
		}
	}()

	contract, err := New(chain, app_config.GetUint64(GAS_LIMIT), logger).Deploy(ctx, artifact, args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("Deploy: %w", err)
	}

	return contract.Address, nil
}

// Network selected by --network argument or LOTTERY_NETWORK_ID
func Network(app_config *config.Config) (*network.Network, error) {
	network_id := app_config.GetString(NETWORK_ID)
	if arg.Exist(arg.Network) {
		value, err := arg.Value(arg.Network)
		if err != nil {
			return nil, fmt.Errorf("arg.Value: %w", err)
		}
		network_id = value
	}

	networks, err := network.LoadNetworks(app_config.GetString(NETWORKS_PATH))
	if err != nil {
		return nil, fmt.Errorf("network.LoadNetworks: %w", err)
	}

	selected, err := networks.Get(network_id)
	if err != nil {
		return nil, fmt.Errorf("networks.Get: %w. available networks: %v", err, networks.Ids())
	}

	return selected, nil
}

// Artifact from LOTTERY_ARTIFACT_PATH or the bundled lottery
func Artifact(app_config *config.Config) (*abi.Artifact, error) {
	path := app_config.GetString(ARTIFACT_PATH)
	if len(path) == 0 {
		return lottery.Artifact()
	}
	return abi.Load(path)
}

// ConstructorArguments as strings.
//
// The value is either the comma separated list, where the empty values are skipped,
// or the list in the flow style that allows commas inside the values:
//
//	LOTTERY_CONSTRUCTOR_ARGS='["hello, there", 0xdead]'
func ConstructorArguments(app_config *config.Config) ([]string, error) {
	raw := strings.TrimSpace(app_config.GetString(CONSTRUCTOR_ARGS))
	if strings.HasPrefix(raw, "[") {
		var args []string
		if err := yaml.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal(%s): %w", CONSTRUCTOR_ARGS, err)
		}
		return args, nil
	}

	args := make([]string, 0)
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if len(value) > 0 {
			args = append(args, value)
		}
	}
	return args, nil
}

// Connect to the network.
//
// The remote network requires the mnemonic. The ephemeral networks
// use the generated accounts.
func Connect(ctx context.Context, app_config *config.Config, selected *network.Network, logger *log.Logger) (blockchain.Client, error) {
	switch selected.Type {
	case network.SIMULATED:
		chain, err := simulated.New(logger)
		if err != nil {
			return nil, fmt.Errorf("simulated.New: %w", err)
		}
		logger.Info("dry run", "network_id", selected.Id, "chain_id", chain.ChainId().String())
		return chain, nil
	case network.NATIVE:
		chain, err := native.New(logger, native.WithProgram(lottery.ARTIFACT_NAME, lottery.NewProgram()))
		if err != nil {
			return nil, fmt.Errorf("native.New: %w", err)
		}
		return chain, nil
	}

	mnemonic, err := security.New(app_config, logger).Mnemonic()
	if err != nil {
		return nil, fmt.Errorf("security.Mnemonic: %w", err)
	}

	signer, err := wallet.FromMnemonic(mnemonic, int(app_config.GetUint64(ACCOUNTS)))
	if err != nil {
		return nil, fmt.Errorf("wallet.FromMnemonic: %w", err)
	}

	url, err := selected.GetFirstProviderUrl()
	if err != nil {
		return nil, fmt.Errorf("network.GetFirstProviderUrl: %w", err)
	}

	chain, err := client.Dial(ctx, url, signer, logger)
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	logger.Info("connected", "network_id", selected.Id, "chain_id", chain.ChainId().String())

	return chain, nil
}
