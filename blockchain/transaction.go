package blockchain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrTransactionFailed is any transaction that was rejected or reverted
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrUnknownAccount the client can not sign for the account
	ErrUnknownAccount = errors.New("unknown account")
	// ErrUnknownMethod the contract interface doesn't have the method
	ErrUnknownMethod = errors.New("unknown method")
)

// Receipt of the transaction that was included in the block
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Cost        *big.Int // gas used multiplied by the effective gas price, in wei
	Success     bool
}

// TxError is returned when the transaction was rejected or reverted.
//
// errors.Is(err, ErrTransactionFailed) is always true for it.
// The reason is the revert reason or the error of the contract.
type TxError struct {
	Hash   common.Hash
	Reason error
}

// Error message with the transaction hash
func (e *TxError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("transaction %s failed", e.Hash.Hex())
	}
	return fmt.Sprintf("transaction %s failed: %v", e.Hash.Hex(), e.Reason)
}

func (e *TxError) Unwrap() error {
	return e.Reason
}

func (e *TxError) Is(target error) bool {
	return target == ErrTransactionFailed
}

// NewTxError wraps the reason
func NewTxError(hash common.Hash, reason error) *TxError {
	return &TxError{Hash: hash, Reason: reason}
}
