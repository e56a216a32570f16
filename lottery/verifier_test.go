package lottery

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/blocklords/lottery/blockchain"
	"github.com/blocklords/lottery/blockchain/evm/simulated"
	"github.com/blocklords/lottery/blockchain/evm/util"
	"github.com/blocklords/lottery/blockchain/native"
	"github.com/blocklords/lottery/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

// newChain starts the fresh chain for every test
type newChain func(logger *log.Logger) (blockchain.Client, error)

// The same scenarios run on every chain
type TestVerifierSuite struct {
	suite.Suite
	new_chain newChain

	ctx      context.Context
	client   blockchain.Client
	accounts []common.Address
	lottery  *Contract
}

func (suite *TestVerifierSuite) SetupTest() {
	suite.ctx = context.Background()

	logger, err := log.New("test", log.WITHOUT_TIMESTAMP)
	suite.Require().NoError(err)

	client, err := suite.new_chain(logger)
	suite.Require().NoError(err)
	suite.client = client

	accounts, err := client.Accounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().GreaterOrEqual(len(accounts), 4)
	suite.accounts = accounts

	artifact, err := Artifact()
	suite.Require().NoError(err)

	lottery, err := Deploy(suite.ctx, client, artifact, blockchain.Options{From: accounts[0]})
	suite.Require().NoError(err)
	suite.lottery = lottery
}

func (suite *TestVerifierSuite) TearDownTest() {
	suite.Require().NoError(suite.client.Close())
}

func (suite *TestVerifierSuite) ether(amount string) *big.Int {
	wei, err := util.ParseEther(amount)
	suite.Require().NoError(err)
	return wei
}

func (suite *TestVerifierSuite) players() []common.Address {
	players, err := suite.lottery.ReturnPlayers(suite.ctx)
	suite.Require().NoError(err)
	return players
}

func (suite *TestVerifierSuite) TestDeploy() {
	suite.Require().NotEqual(common.Address{}, suite.lottery.Address())
	suite.Require().Empty(suite.players())

	manager, err := suite.lottery.Manager(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.accounts[0], manager)
}

func (suite *TestVerifierSuite) TestOneAccountEnters() {
	receipt, err := suite.lottery.Enter(suite.ctx, suite.accounts[0], suite.ether("0.02"))
	suite.Require().NoError(err)
	suite.Require().True(receipt.Success)

	suite.Require().Equal([]common.Address{suite.accounts[0]}, suite.players())
}

func (suite *TestVerifierSuite) TestMultipleAccountsEnter() {
	for _, account := range suite.accounts[:3] {
		_, err := suite.lottery.Enter(suite.ctx, account, suite.ether("0.02"))
		suite.Require().NoError(err)
	}

	suite.Require().Equal(suite.accounts[:3], suite.players())

	out, err := suite.client.Call(suite.ctx, suite.lottery.Handle(), "players", big.NewInt(1))
	suite.Require().NoError(err)
	suite.Require().Equal(suite.accounts[1], out[0])
}

func (suite *TestVerifierSuite) TestMinimumAmountOfEther() {
	_, err := suite.lottery.Enter(suite.ctx, suite.accounts[0], suite.ether("0.001"))
	suite.Require().ErrorIs(err, blockchain.ErrTransactionFailed)

	suite.Require().Empty(suite.players())
}

func (suite *TestVerifierSuite) TestOnlyManagerCanPickWinner() {
	_, err := suite.lottery.Enter(suite.ctx, suite.accounts[1], suite.ether("0.02"))
	suite.Require().NoError(err)

	receipt, err := suite.lottery.PickWinner(suite.ctx, suite.accounts[1])
	suite.Require().ErrorIs(err, blockchain.ErrTransactionFailed)
	suite.Require().NotNil(receipt)
	suite.Require().False(receipt.Success)
	suite.Require().Contains(strings.ToLower(err.Error()), "only manager can do")

	suite.Require().Equal([]common.Address{suite.accounts[1]}, suite.players())
}

func (suite *TestVerifierSuite) TestSendsMoneyToWinnerAndResetsPlayers() {
	_, err := suite.lottery.Enter(suite.ctx, suite.accounts[1], suite.ether("2"))
	suite.Require().NoError(err)

	initial, err := suite.client.Balance(suite.ctx, suite.accounts[1])
	suite.Require().NoError(err)

	_, err = suite.lottery.PickWinner(suite.ctx, suite.accounts[0])
	suite.Require().NoError(err)

	final, err := suite.client.Balance(suite.ctx, suite.accounts[1])
	suite.Require().NoError(err)

	difference := new(big.Int).Sub(final, initial)
	suite.Require().Equal(1, difference.Cmp(suite.ether("1.8")))

	suite.Require().Empty(suite.players())

	contract_balance, err := suite.client.Balance(suite.ctx, suite.lottery.Address())
	suite.Require().NoError(err)
	suite.Require().Zero(contract_balance.Sign())
}

func (suite *TestVerifierSuite) TestManagerPaysOnlyGas() {
	_, err := suite.lottery.Enter(suite.ctx, suite.accounts[0], suite.ether("0.02"))
	suite.Require().NoError(err)

	initial, err := suite.client.Balance(suite.ctx, suite.accounts[0])
	suite.Require().NoError(err)

	receipt, err := suite.lottery.PickWinner(suite.ctx, suite.accounts[0])
	suite.Require().NoError(err)

	final, err := suite.client.Balance(suite.ctx, suite.accounts[0])
	suite.Require().NoError(err)

	expected := new(big.Int).Sub(suite.ether("0.02"), receipt.Cost)
	suite.Require().Zero(expected.Cmp(new(big.Int).Sub(final, initial)))
}

func (suite *TestVerifierSuite) TestPickWinnerWithoutPlayers() {
	_, err := suite.lottery.PickWinner(suite.ctx, suite.accounts[0])
	suite.Require().ErrorIs(err, blockchain.ErrTransactionFailed)
}

func (suite *TestVerifierSuite) TestReopensAfterPayout() {
	for _, account := range suite.accounts[1:3] {
		_, err := suite.lottery.Enter(suite.ctx, account, suite.ether("0.02"))
		suite.Require().NoError(err)
	}
	_, err := suite.lottery.PickWinner(suite.ctx, suite.accounts[0])
	suite.Require().NoError(err)
	suite.Require().Empty(suite.players())

	_, err = suite.lottery.Enter(suite.ctx, suite.accounts[3], suite.ether("0.02"))
	suite.Require().NoError(err)
	suite.Require().Equal([]common.Address{suite.accounts[3]}, suite.players())
}

func (suite *TestVerifierSuite) TestEntryAboveBalance() {
	initial, err := suite.client.Balance(suite.ctx, suite.accounts[1])
	suite.Require().NoError(err)

	receipt, err := suite.lottery.Enter(suite.ctx, suite.accounts[1], suite.ether("1000"))
	suite.Require().ErrorIs(err, blockchain.ErrTransactionFailed)
	suite.Require().Nil(receipt)
	suite.Require().Empty(suite.players())

	// nothing is charged for the rejected transaction
	final, err := suite.client.Balance(suite.ctx, suite.accounts[1])
	suite.Require().NoError(err)
	suite.Require().Zero(initial.Cmp(final))

	_, err = suite.lottery.Enter(suite.ctx, suite.accounts[1], suite.ether("0.02"))
	suite.Require().NoError(err)
	suite.Require().Equal([]common.Address{suite.accounts[1]}, suite.players())
}

func (suite *TestVerifierSuite) TestGasLimitTooLow() {
	opts := blockchain.Options{From: suite.accounts[1], Value: suite.ether("0.02"), GasLimit: 20_000}
	receipt, err := suite.client.Transact(suite.ctx, suite.lottery.Handle(), "enter", opts)
	suite.Require().ErrorIs(err, blockchain.ErrTransactionFailed)
	suite.Require().Nil(receipt)
	suite.Require().Empty(suite.players())

	opts.GasLimit = 0
	_, err = suite.client.Transact(suite.ctx, suite.lottery.Handle(), "enter", opts)
	suite.Require().NoError(err)
	suite.Require().Equal([]common.Address{suite.accounts[1]}, suite.players())
}

func (suite *TestVerifierSuite) TestUnknownMethodAndAccount() {
	_, err := suite.client.Transact(suite.ctx, suite.lottery.Handle(), "withdraw", blockchain.Options{From: suite.accounts[0]})
	suite.Require().ErrorIs(err, blockchain.ErrUnknownMethod)

	_, err = suite.client.Call(suite.ctx, suite.lottery.Handle(), "winner")
	suite.Require().ErrorIs(err, blockchain.ErrUnknownMethod)

	stranger := common.HexToAddress("0x0000000000000000000000000000000000000bad")
	_, err = suite.lottery.Enter(suite.ctx, stranger, suite.ether("0.02"))
	suite.Require().ErrorIs(err, blockchain.ErrUnknownAccount)
}

func TestVerifierOnSimulatedChain(t *testing.T) {
	suite.Run(t, &TestVerifierSuite{
		new_chain: func(logger *log.Logger) (blockchain.Client, error) {
			client, err := simulated.New(logger)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})
}

func TestVerifierOnNativeChain(t *testing.T) {
	suite.Run(t, &TestVerifierSuite{
		new_chain: func(logger *log.Logger) (blockchain.Client, error) {
			chain, err := native.New(logger, native.WithProgram(ARTIFACT_NAME, NewProgram()))
			if err != nil {
				return nil, err
			}
			return chain, nil
		},
	})
}
