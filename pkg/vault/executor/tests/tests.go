package tests

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
	"github.com/code-payments/vault-relay/pkg/testutil"
	"github.com/code-payments/vault-relay/pkg/vault"
	"github.com/code-payments/vault-relay/pkg/vault/executor"
)

// Runtime is an executor.Runtime that can be seeded and inspected outside of
// a transaction.
type Runtime interface {
	executor.Runtime

	CreateTokenAccount(account, owner, mint ed25519.PublicKey, amount uint64) error
	Balance(account ed25519.PublicKey) (uint64, error)
}

func RunTests(t *testing.T, r Runtime, teardown func()) {
	for _, tf := range []func(t *testing.T, r Runtime){
		testCommit,
		testRollback,
		testSignerVerification,
		testInsufficientFunds,
		testCreateTokenAccountIfAbsent,
		testClosedTransaction,
	} {
		tf(t, r)
		teardown()
	}
}

type accounts struct {
	owner       ed25519.PublicKey
	mint        ed25519.PublicKey
	source      ed25519.PublicKey
	destination ed25519.PublicKey
}

func setupAccounts(t *testing.T, r Runtime, owner ed25519.PublicKey, amount uint64) *accounts {
	keys := testutil.GenerateKeys(t, 5)
	if owner == nil {
		owner = keys[0]
	}

	res := &accounts{
		owner:       owner,
		mint:        keys[1],
		source:      keys[2],
		destination: keys[3],
	}
	require.NoError(t, r.CreateTokenAccount(res.source, res.owner, res.mint, amount))
	require.NoError(t, r.CreateTokenAccount(res.destination, keys[4], res.mint, 0))
	return res
}

func testCommit(t *testing.T, r Runtime) {
	t.Run("testCommit", func(t *testing.T) {
		ctx := context.Background()
		a := setupAccounts(t, r, nil, 100)

		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, a.owner)
		require.NoError(t, err)

		require.NoError(t, txn.Transfer(ctx, a.source, a.destination, a.owner, 40, nil))
		require.NoError(t, txn.Transfer(ctx, a.source, a.destination, a.owner, 60, nil))

		assertBalance(t, r, a.source, 100)
		assertBalance(t, r, a.destination, 0)

		require.NoError(t, txn.Commit(ctx))

		assertBalance(t, r, a.source, 0)
		assertBalance(t, r, a.destination, 100)
	})
}

func testRollback(t *testing.T, r Runtime) {
	t.Run("testRollback", func(t *testing.T) {
		ctx := context.Background()
		a := setupAccounts(t, r, nil, 100)
		created := testutil.GenerateKeys(t, 1)[0]

		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, a.owner)
		require.NoError(t, err)

		require.NoError(t, txn.CreateTokenAccountIfAbsent(ctx, created, a.owner, a.mint))
		require.NoError(t, txn.Transfer(ctx, a.source, created, a.owner, 50, nil))
		require.NoError(t, txn.Rollback(ctx))

		assertBalance(t, r, a.source, 100)

		_, err = r.Balance(created)
		assert.True(t, errors.Is(err, executor.ErrTokenAccountNotFound))
	})
}

func testSignerVerification(t *testing.T, r Runtime) {
	t.Run("testSignerVerification", func(t *testing.T) {
		ctx := context.Background()

		escrow, bump, err := vault_program.GetEscrowAddress()
		require.NoError(t, err)

		a := setupAccounts(t, r, escrow, 100)

		// The escrow never signs the outer instruction
		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, testutil.GenerateKeys(t, 1)[0])
		require.NoError(t, err)

		err = txn.Transfer(ctx, a.source, a.destination, escrow, 10, nil)
		assert.True(t, errors.Is(err, executor.ErrMissingSignature))

		err = txn.Transfer(ctx, a.source, a.destination, escrow, 10, vault_program.GetEscrowSignerSeeds(bump+1))
		assert.True(t, errors.Is(err, executor.ErrMissingSignature))

		require.NoError(t, txn.Transfer(ctx, a.source, a.destination, escrow, 10, vault_program.GetEscrowSignerSeeds(bump)))
		require.NoError(t, txn.Commit(ctx))

		assertBalance(t, r, a.source, 90)
		assertBalance(t, r, a.destination, 10)

		// Seeds only derive addresses for the program that began the transaction
		txn, err = r.Begin(ctx, testutil.GenerateKeys(t, 1)[0])
		require.NoError(t, err)

		err = txn.Transfer(ctx, a.source, a.destination, escrow, 10, vault_program.GetEscrowSignerSeeds(bump))
		assert.True(t, errors.Is(err, executor.ErrMissingSignature))
		require.NoError(t, txn.Rollback(ctx))
	})
}

func testInsufficientFunds(t *testing.T, r Runtime) {
	t.Run("testInsufficientFunds", func(t *testing.T) {
		ctx := context.Background()
		a := setupAccounts(t, r, nil, 10)

		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, a.owner)
		require.NoError(t, err)

		err = txn.Transfer(ctx, a.source, a.destination, a.owner, 11, nil)
		assert.True(t, errors.Is(err, vault.ErrInsufficientFunds))

		err = txn.Transfer(ctx, a.destination, a.source, a.owner, 0, nil)
		assert.True(t, errors.Is(err, executor.ErrInvalidAuthority))

		require.NoError(t, txn.Rollback(ctx))
		assertBalance(t, r, a.source, 10)
	})
}

func testCreateTokenAccountIfAbsent(t *testing.T, r Runtime) {
	t.Run("testCreateTokenAccountIfAbsent", func(t *testing.T) {
		ctx := context.Background()
		a := setupAccounts(t, r, nil, 10)
		otherMint := testutil.GenerateKeys(t, 1)[0]

		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID)
		require.NoError(t, err)

		require.NoError(t, txn.CreateTokenAccountIfAbsent(ctx, a.source, a.owner, a.mint))
		assert.True(t, errors.Is(txn.CreateTokenAccountIfAbsent(ctx, a.source, a.owner, otherMint), executor.ErrMintMismatch))
		assert.True(t, errors.Is(txn.CreateTokenAccountIfAbsent(ctx, a.source, otherMint, a.mint), executor.ErrInvalidAuthority))
		require.NoError(t, txn.Commit(ctx))

		assertBalance(t, r, a.source, 10)
	})
}

func testClosedTransaction(t *testing.T, r Runtime) {
	t.Run("testClosedTransaction", func(t *testing.T) {
		ctx := context.Background()
		a := setupAccounts(t, r, nil, 10)

		txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, a.owner)
		require.NoError(t, err)
		require.NoError(t, txn.Commit(ctx))

		assert.Equal(t, executor.ErrTransactionClosed, txn.Commit(ctx))
		assert.Equal(t, executor.ErrTransactionClosed, txn.Rollback(ctx))
		assert.Equal(t, executor.ErrTransactionClosed, txn.Transfer(ctx, a.source, a.destination, a.owner, 1, nil))

		// The runtime accepts new transactions once the previous one closes
		txn, err = r.Begin(ctx, vault_program.PROGRAM_ID, a.owner)
		require.NoError(t, err)
		require.NoError(t, txn.Rollback(ctx))
	})
}

func assertBalance(t *testing.T, r Runtime, account ed25519.PublicKey, expected uint64) {
	actual, err := r.Balance(account)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
