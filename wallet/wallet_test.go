package wallet

import (
	"math/big"
	"testing"

	"github.com/blocklords/lottery/blockchain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

// The well known development mnemonic, its accounts are public.
const testMnemonic = "test test test test test test test test test test test junk"

type TestWalletSuite struct {
	suite.Suite
	wallet *Wallet
}

func (suite *TestWalletSuite) SetupTest() {
	wallet, err := FromMnemonic(testMnemonic, 3)
	suite.Require().NoError(err)
	suite.wallet = wallet
}

func (suite *TestWalletSuite) TestFromMnemonic() {
	expected := []common.Address{
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
	}
	suite.Require().Equal(expected, suite.wallet.Accounts())

	// modifying the returned list doesn't change the wallet
	list := suite.wallet.Accounts()
	list[0] = common.Address{}
	suite.Require().Equal(expected[0], suite.wallet.Accounts()[0])

	// invalid checksum
	_, err := FromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", 1)
	suite.Require().Error(err)

	_, err = FromMnemonic(testMnemonic, 0)
	suite.Require().Error(err)
}

func (suite *TestWalletSuite) TestTransactOpts() {
	chain_id := big.NewInt(1337)
	account := suite.wallet.Accounts()[1]
	suite.Require().True(suite.wallet.Has(account))

	opts, err := suite.wallet.TransactOpts(account, chain_id)
	suite.Require().NoError(err)
	suite.Require().Equal(account, opts.From)

	stranger := common.HexToAddress("0x0000000000000000000000000000000000000001")
	suite.Require().False(suite.wallet.Has(stranger))
	_, err = suite.wallet.TransactOpts(stranger, chain_id)
	suite.Require().ErrorIs(err, blockchain.ErrUnknownAccount)
}

func (suite *TestWalletSuite) TestGenerate() {
	wallet, err := Generate(5)
	suite.Require().NoError(err)
	suite.Require().Len(wallet.Accounts(), 5)

	_, err = Generate(0)
	suite.Require().Error(err)
}

func TestWallet(t *testing.T) {
	suite.Run(t, new(TestWalletSuite))
}
