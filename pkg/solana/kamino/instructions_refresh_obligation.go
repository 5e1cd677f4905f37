package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type RefreshObligationInstructionAccounts struct {
	LendingMarket ed25519.PublicKey
	Obligation    ed25519.PublicKey

	// Deposit reserves followed by borrow reserves of the obligation
	Reserves []ed25519.PublicKey
}

func NewRefreshObligationInstruction(
	accounts *RefreshObligationInstructionAccounts,
) solana.Instruction {
	accountMetas := []solana.AccountMeta{
		{
			PublicKey:  accounts.LendingMarket,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Obligation,
			IsWritable: true,
			IsSigner:   false,
		},
	}
	for _, reserve := range accounts.Reserves {
		accountMetas = append(accountMetas, solana.NewReadonlyAccountMeta(reserve, false))
	}

	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeRefreshObligation, nil),

		// Instruction accounts
		Accounts: accountMetas,
	}
}
