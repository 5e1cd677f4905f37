package relay

import (
	"crypto/ed25519"
	"math/rand"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
)

func newKaminoInstruction(instructionType kamino.InstructionType, accounts ...solana.AccountMeta) solana.Instruction {
	discriminator := instructionType.Discriminator()
	return solana.NewInstruction(kamino.PROGRAM_ID, append(discriminator[:], 1, 2, 3), accounts...)
}

func randomAccounts(r *rand.Rand, keys []ed25519.PublicKey, n int) []solana.AccountMeta {
	accounts := make([]solana.AccountMeta, n)
	for i := range accounts {
		accounts[i] = solana.AccountMeta{
			PublicKey:  keys[r.Intn(len(keys))],
			IsSigner:   r.Intn(2) == 0,
			IsWritable: r.Intn(2) == 0,
		}
	}
	return accounts
}
