package relay

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	keys := testutil.GenerateKeys(t, 10)
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		group := Group{Classification: ClassificationRelayed}
		for j := 0; j < 1+r.Intn(8); j++ {
			data := make([]byte, r.Intn(64))
			r.Read(data)

			group.Members = append(group.Members, Classified{
				Instruction:    solana.NewInstruction(kamino.PROGRAM_ID, data, randomAccounts(r, keys, r.Intn(30))...),
				Classification: ClassificationRelayed,
			})
		}

		env, err := Encode(group)
		require.NoError(t, err)
		require.NoError(t, env.Validate())

		decoded, err := Decode(kamino.PROGRAM_ID, env)
		require.NoError(t, err)
		require.Len(t, decoded, len(group.Members))
		for j, member := range group.Members {
			assert.Equal(t, member.Instruction.Data, decoded[j].Data)
			assert.Equal(t, len(member.Instruction.Accounts), len(decoded[j].Accounts))
			for k := range member.Instruction.Accounts {
				assert.True(t, member.Instruction.Accounts[k].Equal(decoded[j].Accounts[k]))
			}
		}
	}
}

func TestEnvelope_MixedDiscriminators(t *testing.T) {
	keys := testutil.GenerateKeys(t, 4)

	p1 := []byte{117, 169, 176, 69, 197, 23, 15, 162, 7}
	p2 := []byte{251, 10, 231, 76, 27, 11, 159, 96, 0, 0}

	accounts := []solana.AccountMeta{
		solana.NewReadonlyAccountMeta(keys[0], true),
		solana.NewAccountMeta(keys[1], false),
		solana.NewAccountMeta(keys[2], true),
		solana.NewReadonlyAccountMeta(keys[3], false),
	}

	classifier := NewClassifier(kamino.PROGRAM_ID, KaminoDirectory())
	classified, err := classifier.ClassifyAll([]solana.Instruction{
		solana.NewInstruction(kamino.PROGRAM_ID, p1, accounts[0], accounts[1]),
		solana.NewInstruction(kamino.PROGRAM_ID, p2, accounts[2], accounts[3]),
	})
	require.NoError(t, err)

	groups := Partition(classified)
	require.Len(t, groups, 1)
	assert.Equal(t, ClassificationRelayed, groups[0].Classification)
	assert.Len(t, groups[0].Members, 2)

	env, err := Encode(groups[0])
	require.NoError(t, err)
	assert.Equal(t, [][]byte{p1, p2}, env.Payloads)
	assert.Equal(t, []byte{2, 2}, env.AccountCounts)
	assert.Equal(t, accounts, env.Accounts)
}

func TestEnvelope_CapacityBoundary(t *testing.T) {
	keys := testutil.GenerateKeys(t, 1)

	newGroup := func(accounts int) Group {
		metas := make([]solana.AccountMeta, accounts)
		for i := range metas {
			metas[i] = solana.NewReadonlyAccountMeta(keys[0], false)
		}
		return Group{
			Classification: ClassificationRelayed,
			Members: []Classified{
				{
					Instruction:    newKaminoInstruction(kamino.InstructionTypeInitObligation, metas...),
					Classification: ClassificationRelayed,
				},
			},
		}
	}

	env, err := Encode(newGroup(255))
	require.NoError(t, err)
	assert.Equal(t, []byte{255}, env.AccountCounts)
	assert.Len(t, env.Accounts, 255)

	_, err = Encode(newGroup(256))
	assert.True(t, errors.Is(err, ErrGroupTooLarge))
}

func TestEnvelope_NotRelayed(t *testing.T) {
	_, err := Encode(Group{
		Classification: ClassificationPassthrough,
		Members: []Classified{
			{Instruction: newKaminoInstruction(kamino.InstructionTypeRefreshReserve), Classification: ClassificationPassthrough},
		},
	})
	assert.True(t, errors.Is(err, ErrNotRelayed))
}

func TestEnvelope_AccountCountMismatch(t *testing.T) {
	keys := testutil.GenerateKeys(t, 3)

	valid := &Envelope{
		Payloads:      [][]byte{{1}, {2}},
		AccountCounts: []byte{1, 2},
		Accounts: []solana.AccountMeta{
			solana.NewAccountMeta(keys[0], false),
			solana.NewAccountMeta(keys[1], false),
			solana.NewAccountMeta(keys[2], false),
		},
	}
	decoded, err := Decode(kamino.PROGRAM_ID, valid)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Len(t, decoded[0].Accounts, 1)
	assert.Len(t, decoded[1].Accounts, 2)

	tooFewAccounts := valid.Clone()
	tooFewAccounts.Accounts = tooFewAccounts.Accounts[:2]

	tooManyAccounts := valid.Clone()
	tooManyAccounts.Accounts = append(tooManyAccounts.Accounts, solana.NewAccountMeta(keys[0], false))

	missingCount := valid.Clone()
	missingCount.AccountCounts = missingCount.AccountCounts[:1]

	for _, env := range []*Envelope{tooFewAccounts, tooManyAccounts, missingCount} {
		_, err := Decode(kamino.PROGRAM_ID, env)
		assert.True(t, errors.Is(err, ErrAccountCountMismatch))
	}
}

func TestEnvelope_DecodeIsIndependent(t *testing.T) {
	keys := testutil.GenerateKeys(t, 1)

	env := &Envelope{
		Payloads:      [][]byte{{1, 2}},
		AccountCounts: []byte{1},
		Accounts:      []solana.AccountMeta{solana.NewAccountMeta(keys[0], true)},
	}

	decoded, err := Decode(kamino.PROGRAM_ID, env)
	require.NoError(t, err)

	decoded[0].Data[0] = 9
	decoded[0].Accounts[0].IsSigner = false

	assert.Equal(t, []byte{1, 2}, env.Payloads[0])
	assert.True(t, env.Accounts[0].IsSigner)
}
