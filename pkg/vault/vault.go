package vault

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/cache"
	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/token"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
)

const tokenAccountCacheBudget = 10_000

// Vault is the identity of the vault for a single mint. It's immutable once
// created.
type Vault struct {
	// Program is the vault program that owns the escrow
	Program ed25519.PublicKey

	// Address is the escrow, the vault's delegated authority. It's a program
	// derived address that's only ever authorized by Program.
	Address ed25519.PublicKey
	Bump    uint8

	Mint ed25519.PublicKey

	// Pool is the escrow's associated token account, holding pooled user
	// funds.
	Pool ed25519.PublicKey

	tokenAccounts cache.Cache[ed25519.PublicKey]
}

// New derives the vault for mint.
func New(mint ed25519.PublicKey) (*Vault, error) {
	if len(mint) != ed25519.PublicKeySize {
		return nil, errors.Wrap(ErrInvalidVault, "invalid mint")
	}

	escrow, bump, err := vault_program.GetEscrowAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving escrow address")
	}

	pool, err := token.GetAssociatedAccount(escrow, mint)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving pool address")
	}

	return &Vault{
		Program: vault_program.PROGRAM_ID,
		Address: escrow,
		Bump:    bump,
		Mint:    mint,
		Pool:    pool,

		tokenAccounts: cache.NewCache[ed25519.PublicKey](tokenAccountCacheBudget),
	}, nil
}

// SignerSeeds returns the seeds the vault program signs with on behalf of
// the escrow.
func (v *Vault) SignerSeeds() [][]byte {
	return vault_program.GetEscrowSignerSeeds(v.Bump)
}

// Validate checks the vault's addresses are consistently derived.
func (v *Vault) Validate() error {
	address, err := solana.CreateProgramAddress(v.Program, v.SignerSeeds()...)
	if err != nil {
		return errors.Wrap(ErrInvalidVault, err.Error())
	}
	if !bytes.Equal(address, v.Address) {
		return errors.Wrap(ErrInvalidVault, "escrow address doesn't match bump")
	}

	pool, err := token.GetAssociatedAccount(v.Address, v.Mint)
	if err != nil {
		return errors.Wrap(ErrInvalidVault, err.Error())
	}
	if !bytes.Equal(pool, v.Pool) {
		return errors.Wrap(ErrInvalidVault, "pool isn't the escrow's associated token account")
	}

	return nil
}

// UserTokenAccount returns the user's external holding account for the
// vault's mint.
func (v *Vault) UserTokenAccount(user ed25519.PublicKey) (ed25519.PublicKey, error) {
	if v.tokenAccounts != nil {
		if cached, ok := v.tokenAccounts.Retrieve(string(user)); ok {
			return append(ed25519.PublicKey(nil), cached...), nil
		}
	}

	account, err := token.GetAssociatedAccount(user, v.Mint)
	if err != nil {
		return nil, err
	}

	if v.tokenAccounts != nil {
		// Concurrent derivations of the same account race to insert
		_ = v.tokenAccounts.Insert(string(user), append(ed25519.PublicKey(nil), account...), 1)
	}
	return account, nil
}
