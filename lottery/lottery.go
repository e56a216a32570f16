// Package lottery is the lottery contract.
//
// The manager deploys the lottery. Anyone enters by paying at least the
// minimum contribution. The manager picks the winner who receives the whole
// balance, then the lottery is open for the new round.
//
// The package has the state machine, its program for the native chain,
// the bundled EVM build and the typed binding over any blockchain client.
package lottery

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

var (
	// ErrInsufficientContribution the entry is below the minimum
	ErrInsufficientContribution = errors.New("insufficient contribution")
	// ErrUnauthorized the caller is not the manager
	ErrUnauthorized = errors.New("only manager can do")
	// ErrNoPlayers nobody entered the lottery
	ErrNoPlayers = errors.New("no players")
)

// DefaultMinimum contribution is 0.01 ether
func DefaultMinimum() *big.Int {
	return new(big.Int).Div(big.NewInt(params.Ether), big.NewInt(100))
}

// Payout of the round
type Payout struct {
	Winner common.Address
	Amount *big.Int
}

// Lottery state. It's not safe for the concurrent use.
type Lottery struct {
	manager common.Address
	players []common.Address
	balance *big.Int
	minimum *big.Int
}

// Option of the lottery
type Option func(*Lottery)

// WithMinimum sets the minimum contribution in wei. The minimum is inclusive.
func WithMinimum(minimum *big.Int) Option {
	return func(l *Lottery) {
		l.minimum = new(big.Int).Set(minimum)
	}
}

// New lottery managed by the deployer
func New(manager common.Address, opts ...Option) *Lottery {
	l := &Lottery{
		manager: manager,
		players: []common.Address{},
		balance: big.NewInt(0),
		minimum: DefaultMinimum(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Lottery) Manager() common.Address {
	return l.manager
}

func (l *Lottery) Minimum() *big.Int {
	return new(big.Int).Set(l.minimum)
}

// Balance is the sum of the contributions in the current round
func (l *Lottery) Balance() *big.Int {
	return new(big.Int).Set(l.balance)
}

// ReturnPlayers in the order of the entries.
// The same player appears as many times as they entered.
func (l *Lottery) ReturnPlayers() []common.Address {
	return append([]common.Address{}, l.players...)
}

// Enter the caller with the contribution
func (l *Lottery) Enter(caller common.Address, value *big.Int) error {
	if value == nil || value.Cmp(l.minimum) < 0 {
		return ErrInsufficientContribution
	}

	l.players = append(l.players, caller)
	l.balance = new(big.Int).Add(l.balance, value)

	return nil
}

// PickWinner chooses the winner by the seed and resets the round.
// The caller transfers the payout to the winner.
func (l *Lottery) PickWinner(caller common.Address, seed []byte) (*Payout, error) {
	if caller != l.manager {
		return nil, ErrUnauthorized
	}
	if len(l.players) == 0 {
		return nil, ErrNoPlayers
	}

	payout := &Payout{
		Winner: l.players[Index(seed, len(l.players))],
		Amount: l.balance,
	}

	l.players = []common.Address{}
	l.balance = big.NewInt(0)

	return payout, nil
}

// Index of the winner among n players: keccak256(seed) mod n
func Index(seed []byte, n int) int {
	hash := new(big.Int).SetBytes(crypto.Keccak256(seed))
	return int(hash.Mod(hash, big.NewInt(int64(n))).Int64())
}
