package lottery

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

type TestStateSuite struct {
	suite.Suite
	manager common.Address
	lottery *Lottery
	players []common.Address
}

func (suite *TestStateSuite) SetupTest() {
	suite.manager = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	suite.lottery = New(suite.manager)
	suite.players = make([]common.Address, 10)
	for i := range suite.players {
		suite.players[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
}

func (suite *TestStateSuite) twoCents() *big.Int {
	return new(big.Int).Mul(DefaultMinimum(), big.NewInt(2))
}

func (suite *TestStateSuite) TestNew() {
	suite.Require().Equal(suite.manager, suite.lottery.Manager())
	suite.Require().Empty(suite.lottery.ReturnPlayers())
	suite.Require().Zero(suite.lottery.Balance().Sign())
	suite.Require().Equal("10000000000000000", suite.lottery.Minimum().String())

	custom := New(suite.manager, WithMinimum(big.NewInt(5)))
	suite.Require().Equal(int64(5), custom.Minimum().Int64())
}

func (suite *TestStateSuite) TestEnterOrder() {
	for n := 1; n <= len(suite.players); n++ {
		lottery := New(suite.manager)
		for _, player := range suite.players[:n] {
			suite.Require().NoError(lottery.Enter(player, suite.twoCents()))
		}
		suite.Require().Equal(suite.players[:n], lottery.ReturnPlayers())

		expected := new(big.Int).Mul(suite.twoCents(), big.NewInt(int64(n)))
		suite.Require().Zero(expected.Cmp(lottery.Balance()))
	}

	// the same player enters twice
	suite.Require().NoError(suite.lottery.Enter(suite.players[0], suite.twoCents()))
	suite.Require().NoError(suite.lottery.Enter(suite.players[0], suite.twoCents()))
	suite.Require().Equal([]common.Address{suite.players[0], suite.players[0]}, suite.lottery.ReturnPlayers())
}

func (suite *TestStateSuite) TestEnterMinimum() {
	suite.Require().NoError(suite.lottery.Enter(suite.players[0], suite.twoCents()))

	tenth := new(big.Int).Div(DefaultMinimum(), big.NewInt(10))
	err := suite.lottery.Enter(suite.players[1], tenth)
	suite.Require().ErrorIs(err, ErrInsufficientContribution)
	err = suite.lottery.Enter(suite.players[1], nil)
	suite.Require().ErrorIs(err, ErrInsufficientContribution)

	suite.Require().Equal([]common.Address{suite.players[0]}, suite.lottery.ReturnPlayers())
	suite.Require().Zero(suite.twoCents().Cmp(suite.lottery.Balance()))

	// the minimum is inclusive
	suite.Require().NoError(suite.lottery.Enter(suite.players[1], DefaultMinimum()))
	suite.Require().Len(suite.lottery.ReturnPlayers(), 2)
}

func (suite *TestStateSuite) TestReturnPlayersCopy() {
	suite.Require().NoError(suite.lottery.Enter(suite.players[0], suite.twoCents()))

	players := suite.lottery.ReturnPlayers()
	players[0] = suite.players[1]
	suite.Require().Equal(suite.players[0], suite.lottery.ReturnPlayers()[0])
}

func (suite *TestStateSuite) TestPickWinner() {
	_, err := suite.lottery.PickWinner(suite.manager, []byte("seed"))
	suite.Require().ErrorIs(err, ErrNoPlayers)

	for _, player := range suite.players[:3] {
		suite.Require().NoError(suite.lottery.Enter(player, suite.twoCents()))
	}

	_, err = suite.lottery.PickWinner(suite.players[0], []byte("seed"))
	suite.Require().ErrorIs(err, ErrUnauthorized)
	suite.Require().Equal(suite.players[:3], suite.lottery.ReturnPlayers())

	seed := []byte("seed")
	payout, err := suite.lottery.PickWinner(suite.manager, seed)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.players[Index(seed, 3)], payout.Winner)
	suite.Require().Equal("60000000000000000", payout.Amount.String())

	suite.Require().Empty(suite.lottery.ReturnPlayers())
	suite.Require().Zero(suite.lottery.Balance().Sign())

	// the next round
	suite.Require().NoError(suite.lottery.Enter(suite.players[4], suite.twoCents()))
	suite.Require().Equal([]common.Address{suite.players[4]}, suite.lottery.ReturnPlayers())
}

func (suite *TestStateSuite) TestIndex() {
	seeds := [][]byte{{}, []byte("a"), []byte("b"), common.Hex2Bytes("deadbeef")}
	for _, seed := range seeds {
		for n := 1; n <= 7; n++ {
			index := Index(seed, n)
			suite.Require().GreaterOrEqual(index, 0)
			suite.Require().Less(index, n)
			suite.Require().Equal(index, Index(seed, n))
		}
		suite.Require().Equal(0, Index(seed, 1))
	}
}

func TestState(t *testing.T) {
	suite.Run(t, new(TestStateSuite))
}
