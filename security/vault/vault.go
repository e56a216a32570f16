// Package vault reads the deployer's secrets from the hashicorp vault.
//
// The deployer logs in with the AppRole authentication method,
// reads the secrets from the Key-Value version 2 engine
// and revokes its token when it's done.
package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/blocklords/lottery/common/data_type/key_value"
	"github.com/blocklords/lottery/config"
	"github.com/blocklords/lottery/log"
	hashicorp "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
)

const (
	HOST               = "LOTTERY_VAULT_HOST"
	PORT               = "LOTTERY_VAULT_PORT"
	HTTPS              = "LOTTERY_VAULT_HTTPS"
	APPROLE_MOUNT_PATH = "LOTTERY_VAULT_APPROLE_MOUNT_PATH"
	PATH               = "LOTTERY_VAULT_PATH"
	APPROLE_ROLE_ID    = "LOTTERY_VAULT_APPROLE_ROLE_ID"
	APPROLE_SECRET_ID  = "LOTTERY_VAULT_APPROLE_SECRET_ID"
	TIMEOUT            = "LOTTERY_VAULT_TIMEOUT"
)

// Vault is the wrapper around hashicorp vault client along with
// the secret key paths specific for the deployer.
type Vault struct {
	logger  *log.Logger
	client  *hashicorp.Client
	path    string // Key-Value credentials
	timeout time.Duration

	// connection parameters
	approle_role_id    string
	approle_secret_id  string
	approle_mount_path string

	auth_token *hashicorp.Secret
}

// VaultConfigurations are setting the default configuration parameters.
//
// The values are the default values if it wasn't provided by the user
// Set the default value to nil, if the parameter is required from the user
var VaultConfigurations = config.DefaultConfig{
	Title: "Vault",
	Parameters: key_value.New(map[string]interface{}{
		HOST:               "localhost",
		PORT:               8200,
		HTTPS:              false,
		APPROLE_MOUNT_PATH: "lottery-approle",
		PATH:               "lottery-kv",
		APPROLE_ROLE_ID:    nil,
		APPROLE_SECRET_ID:  nil,
		TIMEOUT:            10, // seconds
	}),
}

// New vault that's logged in to the remote Hashicorp Vault.
func New(app_config *config.Config, parent *log.Logger) (*Vault, error) {
	app_config.SetDefaults(VaultConfigurations)
	if err := app_config.Require(VaultConfigurations); err != nil {
		return nil, fmt.Errorf("secure: %w", err)
	}

	logger := parent.Child("vault")

	secure := app_config.GetBool(HTTPS)
	host := app_config.GetString(HOST)
	port := app_config.GetString(PORT)

	vault_config := hashicorp.DefaultConfig()
	if secure {
		vault_config.Address = fmt.Sprintf("https://%s:%s", host, port)
	} else {
		vault_config.Address = fmt.Sprintf("http://%s:%s", host, port)
	}

	client, err := hashicorp.NewClient(vault_config)
	if err != nil {
		return nil, fmt.Errorf("hashicorp.NewClient: %w", err)
	}

	vault := Vault{
		client:             client,
		logger:             logger,
		path:               app_config.GetString(PATH),
		timeout:            time.Duration(app_config.GetUint64(TIMEOUT)) * time.Second,
		approle_mount_path: app_config.GetString(APPROLE_MOUNT_PATH),
		approle_role_id:    app_config.GetString(APPROLE_ROLE_ID),
		approle_secret_id:  app_config.GetString(APPROLE_SECRET_ID),
	}

	ctx, cancel_func := vault.context()
	token, err := vault.login(ctx)
	cancel_func()
	if err != nil {
		return nil, fmt.Errorf("vault login error: %w", err)
	}
	vault.auth_token = token

	return &vault, nil
}

// A combination of a RoleID and a SecretID is required to log into Vault
// with AppRole authentication method.
//
// ref: https://learn.hashicorp.com/tutorials/vault/approle-best-practices?in=vault/auth-methods#secretid-delivery-best-practices
func (v *Vault) login(ctx context.Context) (*hashicorp.Secret, error) {
	v.logger.Info("Vault login: begin")

	approleSecretID := &approle.SecretID{
		FromString: v.approle_secret_id,
	}

	appRoleAuth, err := approle.NewAppRoleAuth(
		v.approle_role_id,
		approleSecretID,
		approle.WithMountPath(v.approle_mount_path),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize approle authentication method: %w", err)
	}

	authInfo, err := v.client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		return nil, fmt.Errorf("unable to login using approle auth method: %w", err)
	}
	if authInfo == nil {
		return nil, fmt.Errorf("no approle info was returned after login")
	}

	v.logger.Info("Vault login: success!")

	return authInfo, nil
}

// GetString returns the string in the secret by key
func (v *Vault) GetString(secret_name string, key string) (string, error) {
	ctx, cancel_func := v.context()
	defer cancel_func()

	secret, err := v.client.KVv2(v.path).Get(ctx, secret_name)
	if err != nil {
		return "", fmt.Errorf("vault.client.Get: %w", err)
	}

	value, ok := secret.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("the '%s' key of '%s' secret is %T, not a string", key, secret_name, secret.Data[key])
	}

	return value, nil
}

// Close revokes the token of the deployer
func (v *Vault) Close() error {
	ctx, cancel_func := v.context()
	defer cancel_func()

	if err := v.client.Auth().Token().RevokeSelfWithContext(ctx, ""); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	v.client.ClearToken()
	v.logger.Info("Vault token revoked", "accessor", v.auth_token.Auth.Accessor)

	return nil
}

func (v *Vault) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.timeout)
}
