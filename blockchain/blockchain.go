// Package blockchain defines the capability that the deployer and the
// lottery verifier consume to talk to a chain.
//
// The capability is implemented by:
//   - [blockchain/evm/client] for the remote nodes and the go-ethereum simulated backend
//   - [blockchain/evm/simulated] ephemeral in-process EVM chain
//   - [blockchain/native] ephemeral in-memory ledger hosting the contracts written in Go
//
// The client is an explicit handle. Acquire it at setup,
// pass it to every operation and release it with Close.
package blockchain

import (
	"context"
	"math/big"

	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DEFAULT_GAS_LIMIT is used when the Options don't set the gas limit.
const DEFAULT_GAS_LIMIT uint64 = 1_000_000

// Client is the blockchain client capability.
// Every transaction is awaited until it's included in the block.
type Client interface {
	// Accounts returns the accounts that the client can sign for.
	// The order is stable, the first account is the default signer.
	Accounts(ctx context.Context) ([]common.Address, error)
	// Deploy the compiled contract with the constructor arguments.
	Deploy(ctx context.Context, artifact *abi.Artifact, opts Options, args ...interface{}) (*Contract, error)
	// Transact invokes the state changing method of the contract.
	// If the transaction was included but failed, then returns both the receipt and *TxError.
	Transact(ctx context.Context, contract *Contract, method string, opts Options, args ...interface{}) (*Receipt, error)
	// Call invokes the read-only method and returns the decoded outputs.
	Call(ctx context.Context, contract *Contract, method string, args ...interface{}) ([]interface{}, error)
	// Balance of the account in wei.
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	// Close releases the connection to the chain.
	Close() error
}

// Contract is the handle of the deployed smartcontract.
type Contract struct {
	Address  common.Address
	Artifact *abi.Artifact
}

// Options of the transaction
type Options struct {
	From     common.Address
	Value    *big.Int // in wei. nil means zero
	GasLimit uint64   // 0 means DEFAULT_GAS_LIMIT
}

// TxValue returns the value to send, never nil
func (opts Options) TxValue() *big.Int {
	if opts.Value == nil {
		return big.NewInt(0)
	}
	return opts.Value
}

// TxGasLimit returns the gas limit to use
func (opts Options) TxGasLimit() uint64 {
	if opts.GasLimit == 0 {
		return DEFAULT_GAS_LIMIT
	}
	return opts.GasLimit
}
