package client

import (
	"context"
	"testing"
	"time"

	"github.com/blocklords/lottery/log"
	"github.com/blocklords/lottery/wallet"
	"github.com/stretchr/testify/suite"
)

type TestClientSuite struct {
	suite.Suite
	logger *log.Logger
	signer *wallet.Wallet
}

func (suite *TestClientSuite) SetupTest() {
	logger, err := log.New("test", log.WITHOUT_TIMESTAMP)
	suite.Require().NoError(err)
	suite.logger = logger

	signer, err := wallet.Generate(1)
	suite.Require().NoError(err)
	suite.signer = signer
}

func (suite *TestClientSuite) TestDial() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := Dial(ctx, "unknown://localhost", suite.signer, suite.logger)
	suite.Require().Error(err)

	// nobody listens on the port
	_, err = Dial(ctx, "http://127.0.0.1:1", suite.signer, suite.logger)
	suite.Require().Error(err)
}

func TestClient(t *testing.T) {
	suite.Run(t, new(TestClientSuite))
}
