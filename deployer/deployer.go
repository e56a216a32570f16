// Package deployer deploys the compiled smartcontract.
//
// The deployment is attempted once from the first account of the client.
// There are no retries, the caller releases the client.
package deployer

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/blocklords/lottery/log"
)

type Deployer struct {
	client    blockchain.Client
	gas_limit uint64
	logger    *log.Logger
}

// New deployer over the client.
// Zero gas limit means blockchain.DEFAULT_GAS_LIMIT.
func New(client blockchain.Client, gas_limit uint64, parent *log.Logger) *Deployer {
	return &Deployer{
		client:    client,
		gas_limit: gas_limit,
		logger:    parent.Child("deployer"),
	}
}

// Deploy the artifact with the constructor arguments
func (d *Deployer) Deploy(ctx context.Context, artifact *abi.Artifact, args ...interface{}) (*blockchain.Contract, error) {
	accounts, err := d.client.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.Accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("the client has no accounts to deploy from")
	}

	d.logger.Info("Attempting to deploy from account", "account", accounts[0].Hex(), "contract", artifact.Name)

	opts := blockchain.Options{
		From:     accounts[0],
		GasLimit: d.gas_limit,
	}
	contract, err := d.client.Deploy(ctx, artifact, opts, args...)
	if err != nil {
		return nil, fmt.Errorf("client.Deploy: %w", err)
	}

	d.logger.Info("Contract deployed to", "address", contract.Address.Hex())

	return contract, nil
}
