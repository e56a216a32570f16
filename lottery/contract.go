package lottery

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/ethereum/go-ethereum/common"
)

const (
	RETURN_PLAYERS = "returnPlayers"
	GET_PLAYERS    = "getPlayers"
)

// Contract is the deployed lottery accessed through the blockchain client
type Contract struct {
	client         blockchain.Client
	contract       *blockchain.Contract
	players_method string
}

// Deploy the lottery. The sender of the deployment is the manager.
func Deploy(ctx context.Context, client blockchain.Client, artifact *abi.Artifact, opts blockchain.Options) (*Contract, error) {
	if _, err := playersMethod(artifact); err != nil {
		return nil, err
	}

	contract, err := client.Deploy(ctx, artifact, opts)
	if err != nil {
		return nil, fmt.Errorf("client.Deploy: %w", err)
	}

	return At(client, contract)
}

// At binds the lottery that is already deployed
func At(client blockchain.Client, contract *blockchain.Contract) (*Contract, error) {
	method, err := playersMethod(contract.Artifact)
	if err != nil {
		return nil, err
	}

	return &Contract{
		client:         client,
		contract:       contract,
		players_method: method,
	}, nil
}

// returnPlayers is preferred, the bundled build has getPlayers
func playersMethod(artifact *abi.Artifact) (string, error) {
	if artifact.HasMethod(RETURN_PLAYERS) {
		return RETURN_PLAYERS, nil
	}
	if artifact.HasMethod(GET_PLAYERS) {
		return GET_PLAYERS, nil
	}
	return "", fmt.Errorf("%w: the '%s' artifact lists no players", blockchain.ErrUnknownMethod, artifact.Name)
}

func (c *Contract) Address() common.Address {
	return c.contract.Address
}

// Handle of the deployed contract
func (c *Contract) Handle() *blockchain.Contract {
	return c.contract
}

// Enter the lottery paying the value in wei
func (c *Contract) Enter(ctx context.Context, from common.Address, value *big.Int) (*blockchain.Receipt, error) {
	return c.client.Transact(ctx, c.contract, "enter", blockchain.Options{From: from, Value: value})
}

// PickWinner pays the balance to the winner
func (c *Contract) PickWinner(ctx context.Context, from common.Address) (*blockchain.Receipt, error) {
	return c.client.Transact(ctx, c.contract, "pickWinner", blockchain.Options{From: from})
}

// ReturnPlayers in the order of the entries
func (c *Contract) ReturnPlayers(ctx context.Context) ([]common.Address, error) {
	out, err := c.client.Call(ctx, c.contract, c.players_method)
	if err != nil {
		return nil, fmt.Errorf("client.Call: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned nothing", c.players_method)
	}

	players, ok := out[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("%s returned %T instead of the addresses", c.players_method, out[0])
	}
	return players, nil
}

// Manager of the lottery
func (c *Contract) Manager(ctx context.Context) (common.Address, error) {
	out, err := c.client.Call(ctx, c.contract, "manager")
	if err != nil {
		return common.Address{}, fmt.Errorf("client.Call: %w", err)
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("manager returned nothing")
	}

	manager, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("manager returned %T instead of the address", out[0])
	}
	return manager, nil
}
