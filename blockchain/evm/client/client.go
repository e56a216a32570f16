// Package client is the EVM blockchain client.
//
// It implements blockchain.Client over go-ethereum's bind package.
// The backend is either the remote node connected with ethclient
// or the simulated backend.
// Any transaction is awaited until the receipt is available.
package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/abi"
	"github.com/blocklords/lottery/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	eth_common "github.com/ethereum/go-ethereum/common"
	eth_types "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the blockchain node that the client talks to
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account eth_common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Signer keeps the accounts of the client
type Signer interface {
	Accounts() []eth_common.Address
	TransactOpts(account eth_common.Address, chain_id *big.Int) (*bind.TransactOpts, error)
}

var _ blockchain.Client = (*Client)(nil)

type Client struct {
	backend  Backend
	signer   Signer
	chain_id *big.Int
	logger   *log.Logger

	commit func()       // mines the pending transactions of the simulated backend
	close  func() error // releases the backend
}

// Option of the client
type Option func(*Client)

// WithCommit is called after every submitted transaction.
// The simulated backend needs it to include the transaction into the block.
func WithCommit(commit func()) Option {
	return func(c *Client) {
		c.commit = commit
	}
}

// WithClose is called by Client.Close
func WithClose(close func() error) Option {
	return func(c *Client) {
		c.close = close
	}
}

// New client over the backend. The signer's first account is the default account.
func New(backend Backend, signer Signer, chain_id *big.Int, parent *log.Logger, opts ...Option) *Client {
	c := &Client{
		backend:  backend,
		signer:   signer,
		chain_id: chain_id,
		logger:   parent.Child("evm", "chain_id", chain_id.String()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Dial the remote node and create a client connected to it
func Dial(ctx context.Context, url string, signer Signer, parent *log.Logger) (*Client, error) {
	eth_client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to blockchain. please try again later: %w", err)
	}

	chain_id, err := eth_client.ChainID(ctx)
	if err != nil {
		eth_client.Close()
		return nil, fmt.Errorf("eth_client.ChainID: %w", err)
	}

	closer := func() error {
		eth_client.Close()
		return nil
	}

	return New(eth_client, signer, chain_id, parent, WithClose(closer)), nil
}

// ChainId of the network that client is connected to
func (c *Client) ChainId() *big.Int {
	return new(big.Int).Set(c.chain_id)
}

// Accounts that the signer has
func (c *Client) Accounts(_ context.Context) ([]eth_common.Address, error) {
	return c.signer.Accounts(), nil
}

// Balance returns the most recent balance of the account
func (c *Client) Balance(ctx context.Context, account eth_common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("backend.BalanceAt: %w", err)
	}
	return balance, nil
}

// Deploy the smartcontract, wait until it's mined.
func (c *Client) Deploy(ctx context.Context, artifact *abi.Artifact, opts blockchain.Options, args ...interface{}) (*blockchain.Contract, error) {
	if !artifact.Deployable() {
		return nil, fmt.Errorf("the '%s' artifact has no bytecode", artifact.Name)
	}

	auth, err := c.transactOpts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("transactOpts: %w", err)
	}

	address, tx, _, err := bind.DeployContract(auth, artifact.Abi(), artifact.Bytecode, c.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("bind.DeployContract: %w", blockchain.NewTxError(eth_common.Hash{}, err))
	}

	receipt, err := c.wait(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("wait: %w", err)
	}
	if !receipt.Success {
		return nil, blockchain.NewTxError(tx.Hash(), fmt.Errorf("'%s' deployment reverted", artifact.Name))
	}

	c.logger.Info("contract deployed", "name", artifact.Name, "address", address.Hex(), "tx", tx.Hash().Hex(), "gas_used", receipt.GasUsed)

	return &blockchain.Contract{
		Address:  address,
		Artifact: artifact,
	}, nil
}

// Transact submits the transaction and waits until it's mined.
//
// If the transaction is reverted, then the call is replayed to get the revert reason.
func (c *Client) Transact(ctx context.Context, contract *blockchain.Contract, method string, opts blockchain.Options, args ...interface{}) (*blockchain.Receipt, error) {
	if !contract.Artifact.HasMethod(method) {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownMethod, method)
	}

	auth, err := c.transactOpts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("transactOpts: %w", err)
	}

	bound := c.bind(contract)
	tx, err := bound.Transact(auth, method, args...)
	if err != nil {
		return nil, fmt.Errorf("bound.Transact(%s): %w", method, blockchain.NewTxError(eth_common.Hash{}, err))
	}

	receipt, err := c.wait(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("wait: %w", err)
	}

	if !receipt.Success {
		reason := c.revertReason(ctx, opts.From, contract.Address, tx)
		c.logger.Warn("transaction reverted", "method", method, "tx", tx.Hash().Hex(), "reason", reason)
		return receipt, blockchain.NewTxError(tx.Hash(), reason)
	}

	c.logger.Info("transaction mined", "method", method, "tx", tx.Hash().Hex(), "block_number", receipt.BlockNumber)

	return receipt, nil
}

// Call the read-only method on the most recent block
func (c *Client) Call(ctx context.Context, contract *blockchain.Contract, method string, args ...interface{}) ([]interface{}, error) {
	if !contract.Artifact.HasMethod(method) {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownMethod, method)
	}

	var out []interface{}
	err := c.bind(contract).Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		return nil, fmt.Errorf("bound.Call(%s): %w", method, err)
	}

	return out, nil
}

// Close the connection to the backend
func (c *Client) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

func (c *Client) bind(contract *blockchain.Contract) *bind.BoundContract {
	return bind.NewBoundContract(contract.Address, contract.Artifact.Abi(), c.backend, c.backend, c.backend)
}

func (c *Client) transactOpts(ctx context.Context, opts blockchain.Options) (*bind.TransactOpts, error) {
	auth, err := c.signer.TransactOpts(opts.From, c.chain_id)
	if err != nil {
		return nil, fmt.Errorf("signer.TransactOpts: %w", err)
	}

	auth.Context = ctx
	auth.Value = opts.TxValue()
	auth.GasLimit = opts.TxGasLimit()

	return auth, nil
}

// wait until the transaction is mined
func (c *Client) wait(ctx context.Context, tx *eth_types.Transaction) (*blockchain.Receipt, error) {
	if c.commit != nil {
		c.commit()
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("bind.WaitMined: %w", err)
	}

	cost, err := c.cost(ctx, tx, receipt)
	if err != nil {
		return nil, fmt.Errorf("cost: %w", err)
	}

	return &blockchain.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Cost:        cost,
		Success:     receipt.Status == eth_types.ReceiptStatusSuccessful,
	}, nil
}

// cost of the transaction to the sender
func (c *Client) cost(ctx context.Context, tx *eth_types.Transaction, receipt *eth_types.Receipt) (*big.Int, error) {
	header, err := c.backend.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("backend.HeaderByNumber: %w", err)
	}

	price := tx.GasPrice()
	if header.BaseFee != nil {
		tip, err := tx.EffectiveGasTip(header.BaseFee)
		if err != nil {
			return nil, fmt.Errorf("tx.EffectiveGasTip: %w", err)
		}
		price = new(big.Int).Add(tip, header.BaseFee)
	}

	return new(big.Int).Mul(price, new(big.Int).SetUint64(receipt.GasUsed)), nil
}

// revertReason replays the reverted transaction on the most recent state.
// Returns nil if the replay didn't fail.
func (c *Client) revertReason(ctx context.Context, from eth_common.Address, to eth_common.Address, tx *eth_types.Transaction) error {
	msg := ethereum.CallMsg{
		From:  from,
		To:    &to,
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}

	_, err := c.backend.CallContract(ctx, msg, nil)
	c.logger.Debug("reverted transaction replayed", "tx", tx.Hash().Hex(), "reason", err)
	return err
}
