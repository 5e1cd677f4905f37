package vault

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana/token"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestNew(t *testing.T) {
	mint := testutil.GenerateKeys(t, 1)[0]

	v, err := New(mint)
	require.NoError(t, err)
	require.NoError(t, v.Validate())

	escrow, bump, err := vault_program.GetEscrowAddress()
	require.NoError(t, err)
	assert.Equal(t, escrow, v.Address)
	assert.Equal(t, bump, v.Bump)
	assert.Equal(t, vault_program.PROGRAM_ID, v.Program)

	pool, err := token.GetAssociatedAccount(escrow, mint)
	require.NoError(t, err)
	assert.Equal(t, pool, v.Pool)

	again, err := New(mint)
	require.NoError(t, err)
	assert.Equal(t, v.Address, again.Address)
	assert.Equal(t, v.Pool, again.Pool)
}

func TestVault_UserTokenAccount(t *testing.T) {
	keys := testutil.GenerateKeys(t, 2)
	mint, user := keys[0], keys[1]

	v, err := New(mint)
	require.NoError(t, err)

	expected, err := token.GetAssociatedAccount(user, mint)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		actual, err := v.UserTokenAccount(user)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		// Callers can't corrupt cached derivations
		actual[0] ^= 0xff
	}

	uncached := &Vault{Mint: mint}
	actual, err := uncached.UserTokenAccount(user)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestNew_InvalidMint(t *testing.T) {
	_, err := New(ed25519.PublicKey{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInvalidVault))
}

func TestVault_Validate(t *testing.T) {
	keys := testutil.GenerateKeys(t, 2)

	v, err := New(keys[0])
	require.NoError(t, err)

	wrongBump := *v
	wrongBump.Bump--
	assert.True(t, errors.Is(wrongBump.Validate(), ErrInvalidVault))

	wrongPool := *v
	wrongPool.Pool = keys[1]
	assert.True(t, errors.Is(wrongPool.Validate(), ErrInvalidVault))
}

func TestTokenLeg(t *testing.T) {
	keys := testutil.GenerateKeys(t, 4)
	user, escrow, external, pool := keys[0], keys[1], keys[2], keys[3]

	in := &TokenLeg{Direction: DirectionIn, Amount: 10, External: external, Pool: pool}
	transfer, err := token.DecompileTransfer(in.Transfer(user, escrow))
	require.NoError(t, err)
	assert.Equal(t, external, transfer.Source)
	assert.Equal(t, pool, transfer.Destination)
	assert.Equal(t, user, transfer.Owner)
	assert.EqualValues(t, 10, transfer.Amount)

	out := &TokenLeg{Direction: DirectionOut, Amount: 20, External: external, Pool: pool}
	transfer, err = token.DecompileTransfer(out.Transfer(user, escrow))
	require.NoError(t, err)
	assert.Equal(t, pool, transfer.Source)
	assert.Equal(t, external, transfer.Destination)
	assert.Equal(t, escrow, transfer.Owner)
	assert.EqualValues(t, 20, transfer.Amount)
}
