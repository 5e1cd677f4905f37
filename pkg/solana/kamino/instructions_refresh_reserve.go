package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type RefreshReserveInstructionAccounts struct {
	Reserve                ed25519.PublicKey
	LendingMarket          ed25519.PublicKey
	PythOracle             ed25519.PublicKey // Optional
	SwitchboardPriceOracle ed25519.PublicKey // Optional
	SwitchboardTwapOracle  ed25519.PublicKey // Optional
	ScopePrices            ed25519.PublicKey // Optional
}

func NewRefreshReserveInstruction(
	accounts *RefreshReserveInstructionAccounts,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeRefreshReserve, nil),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Reserve,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.LendingMarket,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  getOptionalAccountMetaAddress(accounts.PythOracle),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  getOptionalAccountMetaAddress(accounts.SwitchboardPriceOracle),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  getOptionalAccountMetaAddress(accounts.SwitchboardTwapOracle),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  getOptionalAccountMetaAddress(accounts.ScopePrices),
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
