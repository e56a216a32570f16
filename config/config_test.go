package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/blocklords/lottery/config/env"
	"github.com/blocklords/lottery/log"
	"github.com/stretchr/testify/suite"
)

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type TestConfigSuite struct {
	suite.Suite
	original  []string
	envPath   string
	appConfig *Config
	keys      key_value.KeyValue
}

func (suite *TestConfigSuite) SetupTest() {
	suite.original = os.Args
	suite.envPath = filepath.Join(suite.T().TempDir(), "test.env")
	os.Args = []string{"deployer", "--secure", "--network=local", suite.envPath}

	suite.keys = key_value.Empty().
		Set("LOTTERY_TEST_TRUE_KEY", true).
		Set("LOTTERY_TEST_FALSE_KEY", false).
		Set("LOTTERY_TEST_STRING_KEY", "hello world").
		Set("LOTTERY_TEST_NUMBER_KEY", 123).
		Set("LOTTERY_TEST_FLOAT_KEY", 75.321)
	err := env.WriteEnv(suite.keys, suite.envPath)
	suite.Require().NoError(err)

	logger, err := log.New("test_suite", log.WITHOUT_TIMESTAMP)
	suite.Require().NoError(err)
	appConfig, err := New(logger)
	suite.Require().NoError(err)
	suite.appConfig = appConfig
}

func (suite *TestConfigSuite) TearDownTest() {
	os.Args = suite.original
	for name := range suite.keys {
		suite.Require().NoError(os.Unsetenv(name))
	}
}

func (suite *TestConfigSuite) TestRun() {
	suite.Require().True(suite.appConfig.Secure)
	suite.Require().NotNil(suite.appConfig.logger)

	suite.Require().False(suite.appConfig.Exist("LOTTERY_TEST_TURKISH_KEY"))
	defaultConfig := DefaultConfig{
		Title: "Turkish keys",
		Parameters: key_value.Empty().
			// never will be written since env is already written
			Set("LOTTERY_TEST_STRING_KEY", "salam").
			Set("LOTTERY_TEST_TURKISH_KEY", "salam").
			Set("LOTTERY_TEST_REQUIRED_KEY", nil),
	}
	suite.appConfig.SetDefaults(defaultConfig)
	suite.Require().True(suite.appConfig.Exist("LOTTERY_TEST_TURKISH_KEY"))
	suite.Require().Equal("salam", suite.appConfig.GetString("LOTTERY_TEST_TURKISH_KEY"))
	suite.Require().False(suite.appConfig.Exist("LOTTERY_TEST_REQUIRED_KEY"))
	suite.Require().Error(suite.appConfig.Require(defaultConfig))

	suite.appConfig.SetDefault("LOTTERY_TEST_REQUIRED_KEY", "given")
	suite.Require().NoError(suite.appConfig.Require(defaultConfig))

	suite.Require().True(suite.appConfig.Exist("LOTTERY_TEST_TRUE_KEY"))
	suite.Require().True(suite.appConfig.GetBool("LOTTERY_TEST_TRUE_KEY"))
	suite.Require().True(suite.appConfig.Exist("LOTTERY_TEST_FALSE_KEY"))
	suite.Require().False(suite.appConfig.GetBool("LOTTERY_TEST_FALSE_KEY"))
	suite.Require().Equal("hello world", suite.appConfig.GetString("LOTTERY_TEST_STRING_KEY"))
	suite.Require().Equal(uint64(123), suite.appConfig.GetUint64("LOTTERY_TEST_NUMBER_KEY"))
	suite.Require().Equal("75.321", suite.appConfig.GetString("LOTTERY_TEST_FLOAT_KEY"))
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(TestConfigSuite))
}
