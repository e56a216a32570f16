// Package native is the ephemeral in-memory chain that hosts
// the smartcontracts written in Go.
//
// The chain keeps the accounts, balances and nonces.
// Every transaction is included in its own block.
// The gas is charged with the fixed price even if the transaction fails,
// while the value and the transfers of the failed transaction are reverted.
//
// The programs are registered by the artifact name when the chain is created.
package native

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/blocklords/lottery/log"
	"github.com/blocklords/lottery/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/samber/lo"
)

const (
	// DEFAULT_ACCOUNTS is the amount of the funded accounts
	DEFAULT_ACCOUNTS = 10
	// CALL_GAS is charged for every transaction
	CALL_GAS uint64 = 21_000
	// DEPLOY_GAS is charged for every deployment
	DEPLOY_GAS uint64 = 53_000
)

// ErrClosed is returned by any operation on the closed chain
var ErrClosed = errors.New("chain closed")

// DefaultBalance of every account is 100 ether
func DefaultBalance() *big.Int {
	return new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))
}

// DefaultGasPrice is 1 gwei
func DefaultGasPrice() *big.Int {
	return big.NewInt(params.GWei)
}

type hosted struct {
	program  Program
	artifact *abi.Artifact
}

var _ blockchain.Client = (*Chain)(nil)

// Chain is the in-memory ledger. Safe for concurrent use.
type Chain struct {
	mu     sync.Mutex
	logger *log.Logger
	closed bool

	accounts     []common.Address
	balances     map[common.Address]*big.Int
	nonces       map[common.Address]uint64
	constructors map[string]Constructor
	contracts    map[common.Address]*hosted
	block_number uint64
	gas_price    *big.Int
}

type options struct {
	accounts     int
	balance      *big.Int
	gas_price    *big.Int
	wallet       *wallet.Wallet
	constructors map[string]Constructor
}

// Option of the native chain
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

// WithGasPrice sets the fixed gas price in wei
func WithGasPrice(price *big.Int) Option {
	return func(o *options) {
		o.gas_price = price
	}
}

// WithWallet funds the accounts of the wallet instead of the generated ones
func WithWallet(w *wallet.Wallet) Option {
	return func(o *options) {
		o.wallet = w
	}
}

// WithProgram registers the program deployed for the artifact with the given name
func WithProgram(artifact_name string, constructor Constructor) Option {
	return func(o *options) {
		o.constructors[artifact_name] = constructor
	}
}

// New chain with the funded accounts
func New(parent *log.Logger, opts ...Option) (*Chain, error) {
	conf := options{
		accounts:     DEFAULT_ACCOUNTS,
		balance:      DefaultBalance(),
		gas_price:    DefaultGasPrice(),
		constructors: make(map[string]Constructor),
	}
	for _, opt := range opts {
		opt(&conf)
	}

	if conf.balance == nil || conf.balance.Sign() < 0 {
		return nil, errors.New("the initial balance can not be negative")
	}
	if conf.gas_price == nil || conf.gas_price.Sign() < 0 {
		return nil, errors.New("the gas price can not be negative")
	}

	accounts_wallet := conf.wallet
	if accounts_wallet == nil {
		generated, err := wallet.Generate(conf.accounts)
		if err != nil {
			return nil, fmt.Errorf("wallet.Generate: %w", err)
		}
		accounts_wallet = generated
	}

	chain := &Chain{
		logger:       parent.Child("native"),
		accounts:     accounts_wallet.Accounts(),
		balances:     make(map[common.Address]*big.Int),
		nonces:       make(map[common.Address]uint64),
		constructors: conf.constructors,
		contracts:    make(map[common.Address]*hosted),
		gas_price:    new(big.Int).Set(conf.gas_price),
	}
	for _, account := range chain.accounts {
		chain.balances[account] = new(big.Int).Set(conf.balance)
	}

	chain.logger.Info("chain started", "accounts", len(chain.accounts), "programs", lo.Keys(conf.constructors))

	return chain, nil
}

// Accounts in the stable order
func (chain *Chain) Accounts(ctx context.Context) ([]common.Address, error) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if err := chain.ready(ctx); err != nil {
		return nil, err
	}

	return append([]common.Address{}, chain.accounts...), nil
}

// Balance of the account in wei
func (chain *Chain) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if err := chain.ready(ctx); err != nil {
		return nil, err
	}

	return chain.balanceOf(account), nil
}

// BlockNumber of the latest block
func (chain *Chain) BlockNumber() uint64 {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	return chain.block_number
}

// Deploy the program registered for the artifact
func (chain *Chain) Deploy(ctx context.Context, artifact *abi.Artifact, opts blockchain.Options, args ...interface{}) (*blockchain.Contract, error) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if err := chain.ready(ctx); err != nil {
		return nil, err
	}

	constructor, ok := chain.constructors[artifact.Name]
	if !ok {
		return nil, fmt.Errorf("no program for the '%s' artifact", artifact.Name)
	}

	address := crypto.CreateAddress(opts.From, chain.nonces[opts.From])
	receipt, err := chain.execute(opts, address, DEPLOY_GAS, func(tx *Tx) error {
		program, err := constructor(tx, args...)
		if err != nil {
			return err
		}
		chain.contracts[address] = &hosted{program: program, artifact: artifact}
		return nil
	})
	if err != nil {
		return nil, err
	}

	chain.logger.Info("contract deployed", "name", artifact.Name, "address", address.Hex(), "tx", receipt.TxHash.Hex())

	return &blockchain.Contract{
		Address:  address,
		Artifact: artifact,
	}, nil
}

// Transact the method of the deployed program
func (chain *Chain) Transact(ctx context.Context, contract *blockchain.Contract, method string, opts blockchain.Options, args ...interface{}) (*blockchain.Receipt, error) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if err := chain.ready(ctx); err != nil {
		return nil, err
	}

	deployed, err := chain.hosted(contract, method)
	if err != nil {
		return nil, err
	}

	abi_method, _ := deployed.artifact.GetMethod(method)
	value := opts.TxValue()

	receipt, err := chain.execute(opts, contract.Address, CALL_GAS, func(tx *Tx) error {
		if value.Sign() > 0 && !abi_method.IsPayable() {
			return fmt.Errorf("'%s' is not payable", method)
		}
		return deployed.program.Transact(tx, method, args...)
	})
	if err != nil {
		if receipt != nil {
			chain.logger.Warn("transaction reverted", "method", method, "tx", receipt.TxHash.Hex(), "reason", err)
		}
		return receipt, err
	}

	chain.logger.Info("transaction mined", "method", method, "tx", receipt.TxHash.Hex(), "block_number", receipt.BlockNumber)

	return receipt, nil
}

// Call the read-only method of the deployed program
func (chain *Chain) Call(ctx context.Context, contract *blockchain.Contract, method string, args ...interface{}) ([]interface{}, error) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if err := chain.ready(ctx); err != nil {
		return nil, err
	}

	deployed, err := chain.hosted(contract, method)
	if err != nil {
		return nil, err
	}

	view := &View{Contract: contract.Address, chain: chain}
	out, err := deployed.program.Call(view, method, args...)
	if err != nil {
		return nil, fmt.Errorf("program.Call(%s): %w", method, err)
	}
	return out, nil
}

// Close the chain. The state is discarded.
func (chain *Chain) Close() error {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	if chain.closed {
		return ErrClosed
	}

	chain.closed = true
	chain.contracts = nil
	chain.logger.Info("chain closed", "blocks", chain.block_number)

	return nil
}

func (chain *Chain) ready(ctx context.Context) error {
	if chain.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (chain *Chain) hosted(contract *blockchain.Contract, method string) (*hosted, error) {
	deployed, ok := chain.contracts[contract.Address]
	if !ok {
		return nil, fmt.Errorf("no contract at %s", contract.Address.Hex())
	}
	if !deployed.artifact.HasMethod(method) {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownMethod, method)
	}
	return deployed, nil
}

// execute the transaction in the new block.
//
// The rejected transaction returns no receipt.
// The failed transaction returns the receipt with the *blockchain.TxError.
func (chain *Chain) execute(opts blockchain.Options, to common.Address, gas uint64, run func(tx *Tx) error) (*blockchain.Receipt, error) {
	from := opts.From
	if !lo.Contains(chain.accounts, from) {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownAccount, from.Hex())
	}
	if opts.TxGasLimit() < gas {
		return nil, blockchain.NewTxError(common.Hash{}, fmt.Errorf("intrinsic gas too low: have %d, want %d", opts.TxGasLimit(), gas))
	}

	value := opts.TxValue()
	if value.Sign() < 0 {
		return nil, blockchain.NewTxError(common.Hash{}, errors.New("negative value"))
	}

	cost := new(big.Int).Mul(chain.gas_price, new(big.Int).SetUint64(gas))
	required := new(big.Int).Add(cost, value)
	if chain.balanceOf(from).Cmp(required) < 0 {
		return nil, blockchain.NewTxError(common.Hash{}, fmt.Errorf("insufficient funds for gas * price + value: address %s", from.Hex()))
	}

	nonce := chain.nonces[from]
	chain.nonces[from] = nonce + 1
	chain.block_number++
	chain.balances[from] = new(big.Int).Sub(chain.balances[from], cost)

	receipt := &blockchain.Receipt{
		TxHash:      txHash(from, nonce, to),
		BlockNumber: chain.block_number,
		GasUsed:     gas,
		Cost:        cost,
	}

	snapshot := chain.snapshot()
	chain.move(from, to, value)

	tx := &Tx{
		From:     from,
		Contract: to,
		Value:    new(big.Int).Set(value),
		Seed:     seed(chain.block_number, from, to),
		chain:    chain,
	}
	if err := run(tx); err != nil {
		chain.balances = snapshot
		return receipt, blockchain.NewTxError(receipt.TxHash, err)
	}

	receipt.Success = true
	return receipt, nil
}

func (chain *Chain) balanceOf(account common.Address) *big.Int {
	balance, ok := chain.balances[account]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}

func (chain *Chain) move(from common.Address, to common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	chain.balances[from] = new(big.Int).Sub(chain.balanceOf(from), amount)
	chain.balances[to] = new(big.Int).Add(chain.balanceOf(to), amount)
}

// snapshot of the balances. The balances are never mutated in place.
func (chain *Chain) snapshot() map[common.Address]*big.Int {
	return lo.Assign(chain.balances)
}

func txHash(from common.Address, nonce uint64, to common.Address) common.Hash {
	nonce_bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce_bytes, nonce)
	return crypto.Keccak256Hash(from.Bytes(), nonce_bytes, to.Bytes())
}

func seed(block_number uint64, from common.Address, to common.Address) []byte {
	block_bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(block_bytes, block_number)

	data := append(block_bytes, from.Bytes()...)
	return append(data, to.Bytes()...)
}
