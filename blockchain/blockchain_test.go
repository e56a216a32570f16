package blockchain

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

type TestBlockchainSuite struct {
	suite.Suite
}

func (suite *TestBlockchainSuite) TestOptions() {
	opts := Options{}
	suite.Require().Equal(DEFAULT_GAS_LIMIT, opts.TxGasLimit())
	suite.Require().Zero(opts.TxValue().Sign())

	opts = Options{Value: big.NewInt(5), GasLimit: 21_000}
	suite.Require().Equal(uint64(21_000), opts.TxGasLimit())
	suite.Require().Equal(int64(5), opts.TxValue().Int64())
}

func (suite *TestBlockchainSuite) TestTxError() {
	reason := errors.New("only manager")
	hash := common.HexToHash("0x01")

	err := fmt.Errorf("lottery.PickWinner: %w", NewTxError(hash, reason))
	suite.Require().ErrorIs(err, ErrTransactionFailed)
	suite.Require().ErrorIs(err, reason)
	suite.Require().NotErrorIs(err, ErrUnknownMethod)
	suite.Require().Contains(err.Error(), "only manager")

	var tx_err *TxError
	suite.Require().True(errors.As(err, &tx_err))
	suite.Require().Equal(hash, tx_err.Hash)

	// the transaction reverted without reason
	err = NewTxError(hash, nil)
	suite.Require().ErrorIs(err, ErrTransactionFailed)
	suite.Require().Contains(err.Error(), hash.Hex())
}

func TestBlockchain(t *testing.T) {
	suite.Run(t, new(TestBlockchainSuite))
}
