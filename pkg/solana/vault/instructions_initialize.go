package vault_program

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

var initializeInstructionDiscriminator = [8]byte{
	175, 175, 109, 31, 13, 152, 155, 237,
}

// InitializeEscrowFunding is the amount of lamports moved into the escrow
// so it's rent exempt before it's first used as a fee payer for relayed
// calls.
const InitializeEscrowFunding uint64 = 1_000_000

type InitializeInstructionAccounts struct {
	Authority ed25519.PublicKey
	Escrow    ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: initializeInstructionDiscriminator[:],

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Authority,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Escrow,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
