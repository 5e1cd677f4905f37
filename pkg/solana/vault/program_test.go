package vault_program

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestDiscriminators(t *testing.T) {
	for name, discriminator := range map[string][8]byte{
		"initialize": initializeInstructionDiscriminator,
		"deposit":    depositInstructionDiscriminator,
		"withdraw":   withdrawInstructionDiscriminator,
	} {
		hash := sha256.Sum256([]byte("global:" + name))
		assert.Equal(t, hash[:8], discriminator[:], name)
	}
}

func TestGetEscrowAddress(t *testing.T) {
	escrow, bump, err := GetEscrowAddress()
	require.NoError(t, err)

	recreated, err := solana.CreateProgramAddress(PROGRAM_ID, GetEscrowSignerSeeds(bump)...)
	require.NoError(t, err)
	assert.Equal(t, escrow, recreated)
}

func TestRelayInstruction_RoundTrip(t *testing.T) {
	keys := testutil.GenerateKeys(t, 8)

	accounts := &RelayInstructionAccounts{
		User:               keys[0],
		UserTokenAccount:   keys[1],
		Escrow:             keys[2],
		EscrowTokenAccount: keys[3],
		TokenMint:          keys[4],
		RemainingAccounts: []solana.AccountMeta{
			solana.NewAccountMeta(keys[0], true),
			solana.NewReadonlyAccountMeta(keys[5], false),
			solana.NewAccountMeta(keys[2], false),
			solana.NewAccountMeta(keys[6], false),
			solana.NewReadonlyAccountMeta(keys[7], false),
		},
	}
	args := &RelayInstructionArgs{
		IxDatas: [][]byte{
			{117, 169, 176, 69, 197, 23, 15, 162, 1, 2, 3},
			{251, 10, 231, 76, 27, 11, 159, 96, 0, 0},
		},
		IxAccountsCounts: []byte{2, 3},
		Amount:           42,
	}

	for _, tc := range []struct {
		kind   RelayKind
		build  func(*RelayInstructionAccounts, *RelayInstructionArgs) solana.Instruction
		decode func(solana.Instruction) (*RelayInstructionArgs, *RelayInstructionAccounts, error)
		other  func(solana.Instruction) (*RelayInstructionArgs, *RelayInstructionAccounts, error)
	}{
		{RelayKindDeposit, NewDepositInstruction, DecodeDepositInstruction, DecodeWithdrawInstruction},
		{RelayKindWithdraw, NewWithdrawInstruction, DecodeWithdrawInstruction, DecodeDepositInstruction},
	} {
		ixn := tc.build(accounts, args)
		assert.Equal(t, tc.kind, GetRelayKind(ixn))
		assert.Len(t, ixn.Accounts, RelayInstructionAccountsSize+5)

		// The escrow is never a signer of the outer instruction
		for _, account := range ixn.Accounts {
			if account.PublicKey.Equal(keys[2]) {
				assert.False(t, account.IsSigner)
			}
		}

		decodedArgs, decodedAccounts, err := tc.decode(ixn)
		require.NoError(t, err)
		assert.Equal(t, args, decodedArgs)
		assert.Equal(t, accounts, decodedAccounts)

		_, _, err = tc.other(ixn)
		assert.Equal(t, ErrInvalidInstructionData, err)
	}
}

func TestRelayInstruction_InvalidInstruction(t *testing.T) {
	keys := testutil.GenerateKeys(t, 5)

	ixn := NewDepositInstruction(
		&RelayInstructionAccounts{
			User:               keys[0],
			UserTokenAccount:   keys[1],
			Escrow:             keys[2],
			EscrowTokenAccount: keys[3],
			TokenMint:          keys[4],
		},
		&RelayInstructionArgs{
			IxDatas:          [][]byte{{1}},
			IxAccountsCounts: []byte{0},
		},
	)

	wrongProgram := ixn.Clone()
	wrongProgram.Program = keys[0]
	_, _, err := DecodeDepositInstruction(wrongProgram)
	assert.Equal(t, ErrInvalidProgram, err)

	missingAccounts := ixn.Clone()
	missingAccounts.Accounts = missingAccounts.Accounts[:RelayInstructionAccountsSize-1]
	_, _, err = DecodeDepositInstruction(missingAccounts)
	assert.Equal(t, ErrInvalidAccounts, err)

	wrongKamino := ixn.Clone()
	wrongKamino.Accounts[5].PublicKey = keys[0]
	_, _, err = DecodeDepositInstruction(wrongKamino)
	assert.Equal(t, ErrInvalidAccounts, err)

	unsignedUser := ixn.Clone()
	unsignedUser.Accounts[0].IsSigner = false
	_, _, err = DecodeDepositInstruction(unsignedUser)
	assert.Equal(t, ErrInvalidAccounts, err)

	readonlyUser := ixn.Clone()
	readonlyUser.Accounts[0].IsWritable = false
	_, _, err = DecodeDepositInstruction(readonlyUser)
	assert.Equal(t, ErrInvalidAccounts, err)

	assert.Equal(t, RelayKindUnknown, GetRelayKind(NewInitializeInstruction(&InitializeInstructionAccounts{
		Authority: keys[0],
		Escrow:    keys[2],
	})))
}
