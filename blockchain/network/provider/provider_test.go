package provider

import (
	"testing"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
)

type TestProviderSuite struct {
	suite.Suite
}

func (suite *TestProviderSuite) TestNew() {
	// empty map key should fail
	kv := key_value.Empty()
	_, err := New(kv)
	suite.Require().Error(err)

	// the url is empty
	kv = key_value.Empty().Set("url", "")
	_, err = New(kv)
	suite.Require().Error(err)

	// the url is not a string
	kv = key_value.Empty().Set("url", 32)
	_, err = New(kv)
	suite.Require().Error(err)

	// the protocol is not supported
	kv = key_value.Empty().Set("url", "ftp://sample.com")
	_, err = New(kv)
	suite.Require().Error(err)

	for _, raw_url := range []string{
		"http://localhost:8545",
		"https://" + gofakeit.DomainName() + "/v3/" + gofakeit.UUID(),
		"ws://localhost:8546",
		"wss://" + gofakeit.DomainName(),
	} {
		provider, err := New(key_value.Empty().Set("url", raw_url))
		suite.Require().NoError(err)
		suite.Require().Equal(raw_url, provider.Url)
	}
}

func (suite *TestProviderSuite) TestNewList() {
	valid := key_value.Empty().Set("url", "https://sample.com")
	invalid := key_value.Empty().Set("url", "sample.com")

	providers, err := NewList([]key_value.KeyValue{valid, valid})
	suite.Require().NoError(err)
	suite.Require().Len(providers, 2)

	_, err = NewList([]key_value.KeyValue{valid, invalid})
	suite.Require().Error(err)

	providers, err = NewList([]key_value.KeyValue{})
	suite.Require().NoError(err)
	suite.Require().Empty(providers)
}

func TestProvider(t *testing.T) {
	suite.Run(t, new(TestProviderSuite))
}
