package native

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Program is the smartcontract written in Go and hosted by the native chain.
//
// The chain serializes the access to the program.
// When Transact returns an error, the program must leave its state unchanged.
type Program interface {
	// Call the read-only method
	Call(view *View, method string, args ...interface{}) ([]interface{}, error)
	// Transact the state changing method
	Transact(tx *Tx, method string, args ...interface{}) error
}

// Constructor creates the program during the deployment.
// The tx.Contract is the address of the program being deployed.
type Constructor func(tx *Tx, args ...interface{}) (Program, error)

// View is the read-only access to the chain within the call
type View struct {
	Contract common.Address
	chain    *Chain
}

// BalanceOf the account in wei
func (v *View) BalanceOf(account common.Address) *big.Int {
	return v.chain.balanceOf(account)
}

// Tx is the executing transaction
type Tx struct {
	From     common.Address
	Contract common.Address
	Value    *big.Int // already credited to the contract
	Seed     []byte   // block number, sender and contract address

	chain *Chain
}

// BalanceOf the account in wei
func (tx *Tx) BalanceOf(account common.Address) *big.Int {
	return tx.chain.balanceOf(account)
}

// Transfer the amount from the contract to the account.
// Transfers are reverted if the transaction fails.
func (tx *Tx) Transfer(to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("negative transfer %s", amount.String())
	}
	if tx.chain.balanceOf(tx.Contract).Cmp(amount) < 0 {
		return fmt.Errorf("contract balance is less than %s wei", amount.String())
	}

	tx.chain.move(tx.Contract, to, amount)
	return nil
}
