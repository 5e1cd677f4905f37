package vault

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	address_lookup_table "github.com/code-payments/vault-relay/pkg/solana/addresslookuptable"
	compute_budget "github.com/code-payments/vault-relay/pkg/solana/computebudget"
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
)

// TestLendingMarket is a klend lending market with a single reserve for the
// vault's mint, building the same instructions the klend SDK would for an
// obligation owned by the vault.
type TestLendingMarket struct {
	Vault *Vault

	Market           ed25519.PublicKey
	MarketAuthority  ed25519.PublicKey
	Reserve          ed25519.PublicKey
	LiquiditySupply  ed25519.PublicKey
	CollateralMint   ed25519.PublicKey
	CollateralSupply ed25519.PublicKey
	Obligation       ed25519.PublicKey
	UserMetadata     ed25519.PublicKey
	LookupTable      ed25519.PublicKey

	// FeePayer is the authority the SDK assumes pays for new accounts
	FeePayer ed25519.PublicKey
}

func NewTestLendingMarket(t *testing.T, v *Vault) *TestLendingMarket {
	keys := make([]ed25519.PublicKey, 7)
	for i := range keys {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	m := &TestLendingMarket{
		Vault:            v,
		Market:           keys[0],
		Reserve:          keys[1],
		LiquiditySupply:  keys[2],
		CollateralMint:   keys[3],
		CollateralSupply: keys[4],
		LookupTable:      keys[5],
		FeePayer:         keys[6],
	}

	var err error
	m.MarketAuthority, _, err = kamino.GetLendingMarketAuthorityAddress(&kamino.GetLendingMarketAuthorityAddressArgs{
		LendingMarket: m.Market,
	})
	require.NoError(t, err)

	m.Obligation, _, err = kamino.GetObligationAddress(&kamino.GetObligationAddressArgs{
		Tag:           kamino.ObligationTagVanilla,
		Owner:         v.Address,
		LendingMarket: m.Market,
		Seed1:         kamino.SYSTEM_PROGRAM_ID,
		Seed2:         kamino.SYSTEM_PROGRAM_ID,
	})
	require.NoError(t, err)

	m.UserMetadata, _, err = kamino.GetUserMetadataAddress(&kamino.GetUserMetadataAddressArgs{
		Owner: v.Address,
	})
	require.NoError(t, err)

	return m
}

// DepositAction returns the builder output to deposit amount into the
// reserve for an obligation that doesn't exist yet.
func (m *TestLendingMarket) DepositAction(amount uint64) *KaminoAction {
	return &KaminoAction{
		SetupIxs: []solana.Instruction{
			compute_budget.SetComputeUnitLimit(1_000_000),
			address_lookup_table.Create(m.LookupTable, m.Vault.Address, m.FeePayer, 1, 255),
			kamino.NewInitUserMetadataInstruction(
				&kamino.InitUserMetadataInstructionAccounts{
					Owner:        m.Vault.Address,
					FeePayer:     m.FeePayer,
					UserMetadata: m.UserMetadata,
				},
				&kamino.InitUserMetadataInstructionArgs{
					UserLookupTable: m.LookupTable,
				},
			),
			m.initObligationInstruction(),
		},
		LendingIxs: append(
			m.refreshInstructions(),
			kamino.NewDepositReserveLiquidityAndObligationCollateralInstruction(
				&kamino.DepositReserveLiquidityAndObligationCollateralInstructionAccounts{
					Owner:                               m.Vault.Address,
					Obligation:                          m.Obligation,
					LendingMarket:                       m.Market,
					LendingMarketAuthority:              m.MarketAuthority,
					Reserve:                             m.Reserve,
					ReserveLiquidityMint:                m.Vault.Mint,
					ReserveLiquiditySupply:              m.LiquiditySupply,
					ReserveCollateralMint:               m.CollateralMint,
					ReserveDestinationDepositCollateral: m.CollateralSupply,
					UserSourceLiquidity:                 m.Vault.Pool,
				},
				&kamino.DepositReserveLiquidityAndObligationCollateralInstructionArgs{
					LiquidityAmount: amount,
				},
			),
		),
	}
}

// WithdrawAction returns the builder output to withdraw amount from an
// existing obligation.
func (m *TestLendingMarket) WithdrawAction(amount uint64) *KaminoAction {
	return &KaminoAction{
		SetupIxs: []solana.Instruction{
			compute_budget.SetComputeUnitLimit(1_000_000),
		},
		LendingIxs: append(
			m.refreshInstructions(),
			kamino.NewWithdrawObligationCollateralAndRedeemReserveCollateralInstruction(
				&kamino.WithdrawObligationCollateralAndRedeemReserveCollateralInstructionAccounts{
					Owner:                    m.Vault.Address,
					Obligation:               m.Obligation,
					LendingMarket:            m.Market,
					LendingMarketAuthority:   m.MarketAuthority,
					WithdrawReserve:          m.Reserve,
					ReserveLiquidityMint:     m.Vault.Mint,
					ReserveSourceCollateral:  m.CollateralSupply,
					ReserveCollateralMint:    m.CollateralMint,
					ReserveLiquiditySupply:   m.LiquiditySupply,
					UserDestinationLiquidity: m.Vault.Pool,
				},
				&kamino.WithdrawObligationCollateralAndRedeemReserveCollateralInstructionArgs{
					CollateralAmount: amount,
				},
			),
		),
	}
}

func (m *TestLendingMarket) initObligationInstruction() solana.Instruction {
	return kamino.NewInitObligationInstruction(
		&kamino.InitObligationInstructionAccounts{
			ObligationOwner:   m.Vault.Address,
			FeePayer:          m.FeePayer,
			Obligation:        m.Obligation,
			LendingMarket:     m.Market,
			Seed1Account:      kamino.SYSTEM_PROGRAM_ID,
			Seed2Account:      kamino.SYSTEM_PROGRAM_ID,
			OwnerUserMetadata: m.UserMetadata,
		},
		&kamino.InitObligationInstructionArgs{
			Tag: kamino.ObligationTagVanilla,
		},
	)
}

func (m *TestLendingMarket) refreshInstructions() []solana.Instruction {
	return []solana.Instruction{
		kamino.NewRefreshReserveInstruction(&kamino.RefreshReserveInstructionAccounts{
			Reserve:       m.Reserve,
			LendingMarket: m.Market,
		}),
		kamino.NewRefreshObligationInstruction(&kamino.RefreshObligationInstructionAccounts{
			LendingMarket: m.Market,
			Obligation:    m.Obligation,
			Reserves:      []ed25519.PublicKey{m.Reserve},
		}),
	}
}
