package lottery

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/native"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Program hosts the lottery on the native chain
type Program struct {
	lottery *Lottery
}

// NewProgram returns the constructor to register on the native chain:
//
//	native.New(logger, native.WithProgram(lottery.ARTIFACT_NAME, lottery.NewProgram()))
//
// The deployer becomes the manager.
func NewProgram(opts ...Option) native.Constructor {
	return func(tx *native.Tx, args ...interface{}) (native.Program, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("the constructor has no arguments, got %d", len(args))
		}
		return &Program{lottery: New(tx.From, opts...)}, nil
	}
}

// Transact enter or pickWinner.
// The read-only methods are no-op transactions.
func (p *Program) Transact(tx *native.Tx, method string, _ ...interface{}) error {
	switch method {
	case "enter":
		return p.lottery.Enter(tx.From, tx.Value)
	case "pickWinner":
		payout, err := p.lottery.PickWinner(tx.From, tx.Seed)
		if err != nil {
			return err
		}
		// the contract balance includes the value sent along with pickWinner
		return tx.Transfer(payout.Winner, tx.BalanceOf(tx.Contract))
	case "manager", "getPlayers", "returnPlayers", "players":
		return nil
	}
	return fmt.Errorf("%w: %s", blockchain.ErrUnknownMethod, method)
}

// Call the read-only method
func (p *Program) Call(view *native.View, method string, args ...interface{}) ([]interface{}, error) {
	switch method {
	case "manager":
		return []interface{}{p.lottery.Manager()}, nil
	case "returnPlayers":
		return []interface{}{p.lottery.ReturnPlayers()}, nil
	case "getPlayers":
		players := p.lottery.ReturnPlayers()
		balances := lo.Map(players, func(player common.Address, _ int) *big.Int {
			return view.BalanceOf(player)
		})
		return []interface{}{players, balances}, nil
	case "players":
		return p.player(args...)
	case "enter", "pickWinner":
		return nil, fmt.Errorf("'%s' changes the state, submit the transaction", method)
	}
	return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownMethod, method)
}

func (p *Program) player(args ...interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("players expects one argument, got %d", len(args))
	}
	index, ok := args[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("players expects *big.Int index, got %T", args[0])
	}

	players := p.lottery.ReturnPlayers()
	if !index.IsInt64() || index.Sign() < 0 || index.Int64() >= int64(len(players)) {
		return nil, errors.New("index out of range")
	}

	return []interface{}{players[index.Int64()]}, nil
}
