package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type WithdrawObligationCollateralAndRedeemReserveCollateralInstructionArgs struct {
	CollateralAmount uint64
}

type WithdrawObligationCollateralAndRedeemReserveCollateralInstructionAccounts struct {
	Owner                    ed25519.PublicKey
	Obligation               ed25519.PublicKey
	LendingMarket            ed25519.PublicKey
	LendingMarketAuthority   ed25519.PublicKey
	WithdrawReserve          ed25519.PublicKey
	ReserveLiquidityMint     ed25519.PublicKey
	ReserveSourceCollateral  ed25519.PublicKey
	ReserveCollateralMint    ed25519.PublicKey
	ReserveLiquiditySupply   ed25519.PublicKey
	UserDestinationLiquidity ed25519.PublicKey
}

func NewWithdrawObligationCollateralAndRedeemReserveCollateralInstruction(
	accounts *WithdrawObligationCollateralAndRedeemReserveCollateralInstructionAccounts,
	args *WithdrawObligationCollateralAndRedeemReserveCollateralInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: newInstructionData(InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateral, *args),

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
				PublicKey:  accounts.WithdrawReserve,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveLiquidityMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveSourceCollateral,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveCollateralMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReserveLiquiditySupply,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserDestinationLiquidity,
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

type DecompiledWithdrawObligationCollateralAndRedeemReserveCollateral struct {
	Owner                    ed25519.PublicKey
	Obligation               ed25519.PublicKey
	ReserveLiquiditySupply   ed25519.PublicKey
	UserDestinationLiquidity ed25519.PublicKey
	CollateralAmount         uint64
}

func DecompileWithdrawObligationCollateralAndRedeemReserveCollateral(ixn solana.Instruction) (*DecompiledWithdrawObligationCollateralAndRedeemReserveCollateral, error) {
	if !ixn.IsProgram(PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(ixn.Accounts) != 14 {
		return nil, ErrInvalidInstructionData
	}

	var args WithdrawObligationCollateralAndRedeemReserveCollateralInstructionArgs
	if err := decodeInstructionData(ixn.Data, InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateral, &args); err != nil {
		return nil, err
	}

	return &DecompiledWithdrawObligationCollateralAndRedeemReserveCollateral{
		Owner:                    ixn.Accounts[0].PublicKey,
		Obligation:               ixn.Accounts[1].PublicKey,
		ReserveLiquiditySupply:   ixn.Accounts[8].PublicKey,
		UserDestinationLiquidity: ixn.Accounts[9].PublicKey,
		CollateralAmount:         args.CollateralAmount,
	}, nil
}
