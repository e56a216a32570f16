// Package simulated starts the ephemeral EVM chain in the process.
//
// The chain is go-ethereum's simulated backend. Each submitted
// transaction is mined into its own block right away.
// The chain is discarded on Close.
package simulated

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blocklords/lottery/blockchain/evm/client"
	"github.com/blocklords/lottery/log"
	"github.com/blocklords/lottery/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/params"
)

const (
	// DEFAULT_ACCOUNTS is the amount of the funded accounts
	DEFAULT_ACCOUNTS = 10
	// BLOCK_GAS_LIMIT of every block in the chain
	BLOCK_GAS_LIMIT uint64 = 10_000_000
)

// DefaultBalance of every account is 100 ether
func DefaultBalance() *big.Int {
	return new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))
}

type options struct {
	accounts int
	balance  *big.Int
	wallet   *wallet.Wallet
}

// Option of the simulated chain
type Option func(*options)

// WithAccounts sets the amount of the generated accounts
func WithAccounts(amount int) Option {
	return func(o *options) {
		o.accounts = amount
	}
}

// WithBalance sets the initial balance of every account in wei
func WithBalance(balance *big.Int) Option {
	return func(o *options) {
		o.balance = balance
	}
}

// WithWallet funds the accounts of the wallet instead of the generated ones
func WithWallet(w *wallet.Wallet) Option {
	return func(o *options) {
		o.wallet = w
	}
}

// ChainId of the simulated chain
func ChainId() *big.Int {
	return new(big.Int).Set(params.AllEthashProtocolChanges.ChainID)
}

// New starts the fresh chain with the funded accounts
func New(parent *log.Logger, opts ...Option) (*client.Client, error) {
	conf := options{
		accounts: DEFAULT_ACCOUNTS,
		balance:  DefaultBalance(),
	}
	for _, opt := range opts {
		opt(&conf)
	}

	if conf.balance == nil || conf.balance.Sign() <= 0 {
		return nil, errors.New("the initial balance should be positive")
	}

	signer := conf.wallet
	if signer == nil {
		generated, err := wallet.Generate(conf.accounts)
		if err != nil {
			return nil, fmt.Errorf("wallet.Generate: %w", err)
		}
		signer = generated
	}

	alloc := core.GenesisAlloc{}
	for _, account := range signer.Accounts() {
		alloc[account] = core.GenesisAccount{Balance: new(big.Int).Set(conf.balance)}
	}

	logger := parent.Child("simulated")
	backend := newBackend(backends.NewSimulatedBackend(alloc, BLOCK_GAS_LIMIT), logger)

	logger.Info("chain started", "accounts", len(alloc), "block_gas_limit", BLOCK_GAS_LIMIT)

	return client.New(
		backend,
		signer,
		ChainId(),
		logger,
		client.WithCommit(func() { backend.Commit() }),
		client.WithClose(backend.Close),
	), nil
}
