package relay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestRemapper_SignerAuthority(t *testing.T) {
	keys := testutil.GenerateKeys(t, 3)
	placeholder, user, vault := keys[0], keys[1], keys[2]

	remapper := NewRemapper(user, vault)

	original := solana.AccountMeta{PublicKey: placeholder, IsSigner: true, IsWritable: true}
	remapped := remapper.RemapAccount(original)
	assert.Equal(t, solana.AccountMeta{PublicKey: user, IsSigner: true, IsWritable: true}, remapped)
	assert.Equal(t, placeholder, original.PublicKey)

	// Only accounts that are both signing and writable are rewritten
	for _, account := range []solana.AccountMeta{
		{PublicKey: placeholder, IsSigner: true, IsWritable: false},
		{PublicKey: placeholder, IsSigner: false, IsWritable: true},
		{PublicKey: placeholder, IsSigner: false, IsWritable: false},
	} {
		assert.Equal(t, account, remapper.RemapAccount(account))
	}
}

func TestRemapper_VaultReference(t *testing.T) {
	keys := testutil.GenerateKeys(t, 2)
	user, vault := keys[0], keys[1]

	remapper := NewRemapper(user, vault)

	expected := solana.AccountMeta{PublicKey: vault, IsSigner: false, IsWritable: true}
	for _, account := range []solana.AccountMeta{
		{PublicKey: vault, IsSigner: true, IsWritable: false},
		{PublicKey: vault, IsSigner: true, IsWritable: true},
		{PublicKey: vault, IsSigner: false, IsWritable: false},
		{PublicKey: vault, IsSigner: false, IsWritable: true},
	} {
		assert.Equal(t, expected, remapper.RemapAccount(account))
	}
}

func TestRemapper_Idempotent(t *testing.T) {
	keys := testutil.GenerateKeys(t, 6)
	user, vault := keys[0], keys[1]

	remapper := NewRemapper(user, vault)
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		ixn := solana.NewInstruction(kamino.PROGRAM_ID, []byte{byte(i)}, randomAccounts(r, keys, 1+r.Intn(20))...)

		once := remapper.RemapInstruction(ixn)
		twice := remapper.RemapInstruction(once)
		assert.True(t, once.Equal(twice))

		for _, account := range once.Accounts {
			if account.PublicKey.Equal(vault) {
				assert.False(t, account.IsSigner)
				assert.True(t, account.IsWritable)
			} else if account.IsSigner && account.IsWritable {
				assert.Equal(t, user, account.PublicKey)
			}
		}
	}
}

func TestRemapper_RemapAllDoesNotMutateInput(t *testing.T) {
	keys := testutil.GenerateKeys(t, 3)
	user, vault := keys[0], keys[1]

	original := []Classified{
		{
			Instruction: newKaminoInstruction(
				kamino.InstructionTypeInitObligation,
				solana.NewAccountMeta(keys[2], true),
				solana.NewReadonlyAccountMeta(vault, true),
			),
			Classification: ClassificationRelayed,
		},
	}
	snapshot := original[0].Instruction.Clone()

	remapped := NewRemapper(user, vault).RemapAll(original)

	assert.True(t, snapshot.Equal(original[0].Instruction))
	assert.Equal(t, ClassificationRelayed, remapped[0].Classification)
	assert.Equal(t, solana.NewAccountMeta(user, true), remapped[0].Instruction.Accounts[0])
	assert.Equal(t, solana.NewAccountMeta(vault, false), remapped[0].Instruction.Accounts[1])
}
