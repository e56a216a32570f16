// Package wallet keeps the private keys that sign the transactions.
//
// The keys are derived from the BIP-39 mnemonic along the Ethereum
// derivation path m/44'/60'/0'/0/i. For the ephemeral chains the keys are generated.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/blocklords/lottery/blockchain"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/tyler-smith/go-bip39"
)

// Wallet is the ordered list of the signing keys
type Wallet struct {
	keys     []*ecdsa.PrivateKey
	accounts []common.Address
}

// FromKeys creates a wallet with the given keys in the same order
func FromKeys(keys ...*ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		keys: keys,
		accounts: lo.Map(keys, func(key *ecdsa.PrivateKey, _ int) common.Address {
			return crypto.PubkeyToAddress(key.PublicKey)
		}),
	}
}

// Generate a wallet with random keys
func Generate(amount int) (*Wallet, error) {
	if amount <= 0 {
		return nil, errors.New("atleast one account should be generated")
	}

	keys := make([]*ecdsa.PrivateKey, amount)
	for i := range keys {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("crypto.GenerateKey: %w", err)
		}
		keys[i] = key
	}

	return FromKeys(keys...), nil
}

// FromMnemonic derives the first `amount` accounts of the mnemonic.
// The mnemonic checksum is validated.
func FromMnemonic(mnemonic string, amount int) (*Wallet, error) {
	if amount <= 0 {
		return nil, errors.New("atleast one account should be derived")
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("bip39.NewSeedWithErrorChecking: %w", err)
	}

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("hdkeychain.NewMaster: %w", err)
	}

	next := accounts.DefaultIterator(accounts.DefaultBaseDerivationPath)
	keys := make([]*ecdsa.PrivateKey, amount)
	for i := range keys {
		path := next()
		key, err := derive(master, path)
		if err != nil {
			return nil, fmt.Errorf("derive(%s): %w", path.String(), err)
		}
		keys[i] = key
	}

	return FromKeys(keys...), nil
}

func derive(master *hdkeychain.ExtendedKey, path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key := master
	for _, n := range path {
		child, err := key.Derive(n)
		if err != nil {
			return nil, fmt.Errorf("key.Derive(%d): %w", n, err)
		}
		key = child
	}

	private_key, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("key.ECPrivKey: %w", err)
	}

	return crypto.ToECDSA(private_key.Serialize())
}

// Accounts in the derivation order
func (w *Wallet) Accounts() []common.Address {
	return append([]common.Address{}, w.accounts...)
}

// Has checks whether the wallet can sign for the account
func (w *Wallet) Has(account common.Address) bool {
	return lo.Contains(w.accounts, account)
}

// TransactOpts returns the signer of the account for the chain
func (w *Wallet) TransactOpts(account common.Address, chain_id *big.Int) (*bind.TransactOpts, error) {
	index := lo.IndexOf(w.accounts, account)
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", blockchain.ErrUnknownAccount, account.Hex())
	}

	opts, err := bind.NewKeyedTransactorWithChainID(w.keys[index], chain_id)
	if err != nil {
		return nil, fmt.Errorf("bind.NewKeyedTransactorWithChainID: %w", err)
	}

	return opts, nil
}
