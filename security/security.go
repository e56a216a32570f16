// The security package resolves the secrets of the deployer.
// By default the mnemonic is read from the environment.
//
// To read it from the vault, pass --secure argument.
package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/blocklords/lottery/config"
	"github.com/blocklords/lottery/log"
	"github.com/blocklords/lottery/security/vault"
)

const (
	MNEMONIC     = "LOTTERY_MNEMONIC"
	VAULT_SECRET = "LOTTERY_VAULT_SECRET" // the secret in the vault's key-value engine
	VAULT_KEY    = "LOTTERY_VAULT_KEY"    // the key of the mnemonic in the secret
)

var SecurityConfigurations = config.DefaultConfig{
	Title: "Security",
	Parameters: key_value.New(map[string]interface{}{
		VAULT_SECRET: "deployer",
		VAULT_KEY:    "mnemonic",
	}),
}

// Security handles the metadata about security layer.
type Security struct {
	app_config *config.Config
	logger     *log.Logger
}

// New security with the given metadata
func New(app_config *config.Config, parent *log.Logger) *Security {
	app_config.SetDefaults(SecurityConfigurations)

	return &Security{
		app_config: app_config,
		logger:     parent.Child("security", "secure", app_config.Secure),
	}
}

// Mnemonic of the deployer's wallet.
//
// If the app is secure, then the vault is logged in,
// the mnemonic is read, and the vault token is revoked.
func (s *Security) Mnemonic() (string, error) {
	if !s.app_config.Secure {
		if !s.app_config.Exist(MNEMONIC) {
			return "", fmt.Errorf("missing '%s' environment variable. set it or pass --secure to read it from the vault", MNEMONIC)
		}
		return normalize(s.app_config.GetString(MNEMONIC))
	}

	v, err := vault.New(s.app_config, s.logger)
	if err != nil {
		return "", fmt.Errorf("vault.New: %w", err)
	}
	defer func() {
		if err := v.Close(); err != nil {
			s.logger.Warn("vault close", "error", err)
		}
	}()

	secret := s.app_config.GetString(VAULT_SECRET)
	key := s.app_config.GetString(VAULT_KEY)
	s.logger.Info("reading the mnemonic from the vault", "secret", secret, "key", key)

	mnemonic, err := v.GetString(secret, key)
	if err != nil {
		return "", fmt.Errorf("vault.GetString: %w", err)
	}

	return normalize(mnemonic)
}

// normalize the white spaces between the words
func normalize(mnemonic string) (string, error) {
	words := strings.Fields(mnemonic)
	if len(words) == 0 {
		return "", errors.New("the mnemonic is empty")
	}
	return strings.Join(words, " "), nil
}
