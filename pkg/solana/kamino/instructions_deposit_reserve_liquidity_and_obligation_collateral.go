package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type DepositReserveLiquidityAndObligationCollateralInstructionArgs struct {
	LiquidityAmount uint64
}

type DepositReserveLiquidityAndObligationCollateralInstructionAccounts struct {
	Owner                               ed25519.PublicKey
	Obligation                          ed25519.PublicKey
	LendingMarket                       ed25519.PublicKey
	LendingMarketAuthority              ed25519.PublicKey
	Reserve                             ed25519.PublicKey
	ReserveLiquidityMint                ed25519.PublicKey
	ReserveLiquiditySupply              ed25519.PublicKey
	ReserveCollateralMint               ed25519.PublicKey
	ReserveDestinationDepositCollateral ed25519.PublicKey
	UserSourceLiquidity                 ed25519.PublicKey
}

func NewDepositReserveLiquidityAndObligationCollateralInstruction(
	accounts *DepositReserveLiquidityAndObligationCollateralInstructionAccounts,
	args *DepositReserveLiquidityAndObligationCollateralInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeDepositReserveLiquidityAndObligationCollateral, *args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Owner,
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
				PublicKey:  accounts.LendingMarketAuthority,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Reserve,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveLiquidityMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveLiquiditySupply,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveCollateralMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveDestinationDepositCollateral,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserSourceLiquidity,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  PROGRAM_ID, // placeholder_user_destination_collateral
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID, // collateral_token_program
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID, // liquidity_token_program
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_INSTRUCTIONS_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type DecompiledDepositReserveLiquidityAndObligationCollateral struct {
	Owner                  ed25519.PublicKey
	Obligation             ed25519.PublicKey
	ReserveLiquiditySupply ed25519.PublicKey
	UserSourceLiquidity    ed25519.PublicKey
	LiquidityAmount        uint64
}

func DecompileDepositReserveLiquidityAndObligationCollateral(ixn solana.Instruction) (*DecompiledDepositReserveLiquidityAndObligationCollateral, error) {
	if !ixn.IsProgram(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(ixn.Accounts) != 14 {
		return nil, ErrInvalidInstructionData
	}

	var args DepositReserveLiquidityAndObligationCollateralInstructionArgs
	if err := decodeInstructionData(ixn.Data, InstructionTypeDepositReserveLiquidityAndObligationCollateral, &args); err != nil {
		return nil, err
	}

	return &DecompiledDepositReserveLiquidityAndObligationCollateral{
		Owner:                  ixn.Accounts[0].PublicKey,
		Obligation:             ixn.Accounts[1].PublicKey,
		ReserveLiquiditySupply: ixn.Accounts[6].PublicKey,
		UserSourceLiquidity:    ixn.Accounts[9].PublicKey,
		LiquidityAmount:        args.LiquidityAmount,
	}, nil
}
