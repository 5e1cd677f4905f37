package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// ObligationTagVanilla is the tag of a plain lending obligation
const ObligationTagVanilla uint8 = 0

type InitObligationInstructionArgs struct {
	Tag uint8
	Id  uint8
}

type InitObligationInstructionAccounts struct {
	ObligationOwner   ed25519.PublicKey
	FeePayer          ed25519.PublicKey
	Obligation        ed25519.PublicKey
	LendingMarket     ed25519.PublicKey
	Seed1Account      ed25519.PublicKey
	Seed2Account      ed25519.PublicKey
	OwnerUserMetadata ed25519.PublicKey
}

func NewInitObligationInstruction(
	accounts *InitObligationInstructionAccounts,
	args *InitObligationInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeInitObligation, *args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.ObligationOwner,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.FeePayer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Obligation,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.LendingMarket,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Seed1Account,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Seed2Account,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.OwnerUserMetadata,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
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
