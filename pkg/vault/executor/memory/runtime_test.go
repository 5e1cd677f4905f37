package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
	"github.com/code-payments/vault-relay/pkg/testutil"
	"github.com/code-payments/vault-relay/pkg/vault/executor"
	"github.com/code-payments/vault-relay/pkg/vault/executor/tests"
)

func TestRuntime(t *testing.T) {
	testRuntime := New()
	teardown := func() {
		testRuntime.reset()
	}
	tests.RunTests(t, testRuntime, teardown)
}

func TestRuntime_InvokeSigned(t *testing.T) {
	ctx := context.Background()
	r := New()

	keys := testutil.GenerateKeys(t, 3)
	program, user, other := keys[0], keys[1], keys[2]

	var invoked int
	r.RegisterHandler(program, func(_ context.Context, _ Ledger, ixn solana.Instruction) error {
		invoked++
		if ixn.Data[0] == 0xff {
			return errors.New("handler failure")
		}
		return nil
	})

	txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, user)
	require.NoError(t, err)

	require.NoError(t, txn.InvokeSigned(ctx, solana.NewInstruction(program, []byte{1}, solana.NewAccountMeta(user, true)), nil))

	err = txn.InvokeSigned(ctx, solana.NewInstruction(program, []byte{2}, solana.NewAccountMeta(other, true)), nil)
	assert.True(t, errors.Is(err, executor.ErrMissingSignature))

	err = txn.InvokeSigned(ctx, solana.NewInstruction(other, []byte{3}), nil)
	assert.True(t, errors.Is(err, executor.ErrUnknownProgram))

	err = txn.InvokeSigned(ctx, solana.NewInstruction(program, []byte{0xff}), nil)
	assert.EqualError(t, err, "handler failure")

	require.NoError(t, txn.Commit(ctx))

	assert.Equal(t, 2, invoked)

	history := r.History()
	require.Len(t, history, 1)
	assert.Equal(t, EventKindInvoke, history[0].Kind)
	assert.Equal(t, program, history[0].Program)
	assert.Equal(t, []byte{1}, history[0].Data)
}

func TestRuntime_HistoryOnlyHasCommittedEvents(t *testing.T) {
	ctx := context.Background()
	r := New()

	keys := testutil.GenerateKeys(t, 4)
	owner, mint, source, destination := keys[0], keys[1], keys[2], keys[3]

	require.NoError(t, r.CreateTokenAccount(source, owner, mint, 10))
	assert.Empty(t, r.History())

	txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)
	require.NoError(t, txn.CreateTokenAccountIfAbsent(ctx, destination, owner, mint))
	require.NoError(t, txn.Transfer(ctx, source, destination, owner, 4, nil))
	require.NoError(t, txn.Rollback(ctx))

	assert.Empty(t, r.History())

	txn, err = r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)
	require.NoError(t, txn.CreateTokenAccountIfAbsent(ctx, destination, owner, mint))
	require.NoError(t, txn.Transfer(ctx, source, destination, owner, 4, nil))
	require.NoError(t, txn.Commit(ctx))

	history := r.History()
	require.Len(t, history, 2)
	assert.Equal(t, EventKindCreateTokenAccount, history[0].Kind)
	assert.Equal(t, destination, history[0].Destination)
	assert.Equal(t, EventKindTransfer, history[1].Kind)
	assert.Equal(t, source, history[1].Source)
	assert.EqualValues(t, 4, history[1].Amount)
}

func TestRuntime_SerializesTransactions(t *testing.T) {
	ctx := context.Background()
	r := New()

	keys := testutil.GenerateKeys(t, 4)
	owner, mint, source, destination := keys[0], keys[1], keys[2], keys[3]
	require.NoError(t, r.CreateTokenAccount(source, owner, mint, 10))
	require.NoError(t, r.CreateTokenAccount(destination, owner, mint, 0))

	first, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)
	require.NoError(t, first.Transfer(ctx, source, destination, owner, 10, nil))

	var began atomic.Bool
	errCh := make(chan error, 1)
	go func() {
		second, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
		if err != nil {
			errCh <- err
			return
		}
		began.Store(true)

		// Only succeeds against the first transaction's committed state
		err = second.Transfer(ctx, destination, source, owner, 10, nil)
		if err != nil {
			_ = second.Rollback(ctx)
			errCh <- err
			return
		}
		errCh <- second.Commit(ctx)
	}()

	require.Error(t, testutil.WaitFor(50*time.Millisecond, 10*time.Millisecond, began.Load))

	require.NoError(t, first.Commit(ctx))
	require.NoError(t, testutil.WaitFor(time.Second, 10*time.Millisecond, began.Load))
	require.NoError(t, <-errCh)

	balance, err := r.Balance(source)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}

func TestRuntime_BeginHonorsContext(t *testing.T) {
	ctx := context.Background()
	r := New()

	owner := testutil.NewRandomPublicKey(t)

	first, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err = r.Begin(timeoutCtx, vault_program.PROGRAM_ID, owner)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, first.Rollback(ctx))

	second, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)
	require.NoError(t, second.Commit(ctx))
}

func TestRuntime_CreateTokenAccountDuringTransaction(t *testing.T) {
	ctx := context.Background()
	r := New()

	keys := testutil.GenerateKeys(t, 3)
	owner, mint, account := keys[0], keys[1], keys[2]

	txn, err := r.Begin(ctx, vault_program.PROGRAM_ID, owner)
	require.NoError(t, err)

	assert.Equal(t, ErrTransactionInProgress, r.CreateTokenAccount(account, owner, mint, 10))

	require.NoError(t, txn.Commit(ctx))

	require.NoError(t, r.CreateTokenAccount(account, owner, mint, 10))
	balance, err := r.Balance(account)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}
