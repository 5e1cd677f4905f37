package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestGetCommand(t *testing.T) {
	other := testutil.NewRandomPublicKey(t)

	cmd, err := GetCommand(solana.NewInstruction(other, []byte{byte(CommandTransfer)}))
	assert.Equal(t, CommandUnknown, cmd)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	cmd, err = GetCommand(solana.NewInstruction(ProgramKey, nil))
	assert.Equal(t, CommandUnknown, cmd)
	assert.ErrorContains(t, err, "missing data")

	cmd, err = GetCommand(solana.NewInstruction(ProgramKey, []byte{byte(CommandCloseAccount)}))
	require.NoError(t, err)
	assert.Equal(t, CommandCloseAccount, cmd)
}

func TestTransfer(t *testing.T) {
	keys := testutil.GenerateKeys(t, 3)

	ixn := Transfer(keys[0], keys[1], keys[2], 0x0102030405060708)
	assert.Equal(t, []byte{3, 8, 7, 6, 5, 4, 3, 2, 1}, ixn.Data)
	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(keys[0], false),
		solana.NewAccountMeta(keys[1], false),
		solana.NewReadonlyAccountMeta(keys[2], true),
	}, ixn.Accounts)

	decompiled, err := DecompileTransfer(ixn)
	require.NoError(t, err)
	assert.Equal(t, &TransferInstruction{
		Source:      keys[0],
		Destination: keys[1],
		Owner:       keys[2],
		Amount:      0x0102030405060708,
	}, decompiled)
}

func TestDecompileTransfer_Invalid(t *testing.T) {
	keys := testutil.GenerateKeys(t, 3)

	truncated := Transfer(keys[0], keys[1], keys[2], 10)
	truncated.Data = truncated.Data[:len(truncated.Data)-1]
	_, err := DecompileTransfer(truncated)
	assert.ErrorContains(t, err, "invalid instruction data size")

	missingOwner := Transfer(keys[0], keys[1], keys[2], 10)
	missingOwner.Accounts = missingOwner.Accounts[:2]
	_, err = DecompileTransfer(missingOwner)
	assert.ErrorContains(t, err, "invalid number of accounts")

	wrongCommand := Transfer(keys[0], keys[1], keys[2], 10)
	wrongCommand.Data[0] = byte(CommandCloseAccount)
	_, err = DecompileTransfer(wrongCommand)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}
