package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type InitUserMetadataInstructionArgs struct {
	UserLookupTable ed25519.PublicKey
}

type InitUserMetadataInstructionAccounts struct {
	Owner                ed25519.PublicKey
	FeePayer             ed25519.PublicKey
	UserMetadata         ed25519.PublicKey
	ReferrerUserMetadata ed25519.PublicKey // Optional
}

type initUserMetadataArgs struct {
	UserLookupTable [32]byte
}

func NewInitUserMetadataInstruction(
	accounts *InitUserMetadataInstructionAccounts,
	args *InitUserMetadataInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeInitUserMetadata, initUserMetadataArgs{
			UserLookupTable: toKey32(args.UserLookupTable),
		}),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Owner,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.FeePayer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.UserMetadata,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  getOptionalAccountMetaAddress(accounts.ReferrerUserMetadata),
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
