package simulated

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocklords/lottery/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/core"
	eth_types "github.com/ethereum/go-ethereum/core/types"
)

// ErrRejected is the transaction that can't be included into the block.
// The simulated backend panics on such transactions, so they are checked before sending.
var ErrRejected = errors.New("transaction rejected")

// backend is the simulated backend that returns errors instead of panics
type backend struct {
	*backends.SimulatedBackend
	signer eth_types.Signer
	logger *log.Logger
}

func newBackend(simulated *backends.SimulatedBackend, logger *log.Logger) *backend {
	return &backend{
		SimulatedBackend: simulated,
		signer:           eth_types.LatestSignerForChainID(ChainId()),
		logger:           logger,
	}
}

// SendTransaction validates the transaction against the latest state, then sends it.
func (b *backend) SendTransaction(ctx context.Context, tx *eth_types.Transaction) (err error) {
	if err := b.validate(ctx, tx); err != nil {
		b.logger.Debug("transaction rejected", "tx", tx.Hash().Hex(), "error", err)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRejected, r)
		}
	}()

	return b.SimulatedBackend.SendTransaction(ctx, tx)
}

func (b *backend) validate(ctx context.Context, tx *eth_types.Transaction) error {
	if tx.Gas() > BLOCK_GAS_LIMIT {
		return fmt.Errorf("%w: gas limit %d exceeds the block gas limit %d", ErrRejected, tx.Gas(), BLOCK_GAS_LIMIT)
	}

	intrinsic, err := core.IntrinsicGas(tx.Data(), tx.AccessList(), tx.To() == nil, true, true)
	if err != nil {
		return fmt.Errorf("%w: core.IntrinsicGas: %v", ErrRejected, err)
	}
	if tx.Gas() < intrinsic {
		return fmt.Errorf("%w: intrinsic gas too low: have %d, want %d", ErrRejected, tx.Gas(), intrinsic)
	}

	from, err := eth_types.Sender(b.signer, tx)
	if err != nil {
		return fmt.Errorf("%w: invalid sender: %v", ErrRejected, err)
	}

	// each transaction is committed right away, so the latest state is the pending one
	balance, err := b.BalanceAt(ctx, from, nil)
	if err != nil {
		return fmt.Errorf("backend.BalanceAt: %w", err)
	}
	if balance.Cmp(tx.Cost()) < 0 {
		return fmt.Errorf("%w: insufficient funds for gas * price + value: address %s have %s want %s", ErrRejected, from.Hex(), balance, tx.Cost())
	}

	return nil
}
