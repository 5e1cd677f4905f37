package kamino

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestInstructionType_AnchorDiscriminators(t *testing.T) {
	types := InstructionTypes()
	require.Len(t, types, len(instructionTypeInfos))

	for _, instructionType := range types {
		hash := sha256.Sum256([]byte("global:" + instructionType.String()))

		var expected [8]byte
		copy(expected[:], hash[:8])
		assert.Equal(t, expected, instructionType.Discriminator(), instructionType.String())
		assert.Equal(t, instructionType, GetInstructionTypeByDiscriminator(expected))
	}
}

func TestInstructionType_KnownDiscriminators(t *testing.T) {
	assert.Equal(t, InstructionTypeInitUserMetadata, GetInstructionType([]byte{117, 169, 176, 69, 197, 23, 15, 162}))
	assert.Equal(t, InstructionTypeInitObligation, GetInstructionType([]byte{251, 10, 231, 76, 27, 11, 159, 96, 0, 0}))

	assert.Equal(t, Unknown, GetInstructionType([]byte{1, 2, 3}))
	assert.Equal(t, Unknown, GetInstructionType(make([]byte, 8)))
	assert.Equal(t, "unknown", Unknown.String())
}

func TestInstructionType_Refresh(t *testing.T) {
	refresh := map[InstructionType]struct{}{
		InstructionTypeRefreshReserve:                   {},
		InstructionTypeRefreshReservesBatch:             {},
		InstructionTypeRefreshObligation:                {},
		InstructionTypeRefreshObligationFarmsForReserve: {},
	}

	for _, instructionType := range InstructionTypes() {
		_, ok := refresh[instructionType]
		assert.Equal(t, ok, instructionType.IsRefresh(), instructionType.String())
	}
}

func TestInitObligationInstruction(t *testing.T) {
	keys := testutil.GenerateKeys(t, 4)

	ixn := NewInitObligationInstruction(
		&InitObligationInstructionAccounts{
			ObligationOwner:   keys[0],
			FeePayer:          keys[0],
			Obligation:        keys[1],
			LendingMarket:     keys[2],
			Seed1Account:      SYSTEM_PROGRAM_ID,
			Seed2Account:      SYSTEM_PROGRAM_ID,
			OwnerUserMetadata: keys[3],
		},
		&InitObligationInstructionArgs{
			Tag: ObligationTagVanilla,
			Id:  0,
		},
	)

	assert.True(t, ixn.IsProgram(PROGRAM_ID))
	assert.Equal(t, []byte{251, 10, 231, 76, 27, 11, 159, 96, 0, 0}, ixn.Data)
	assert.True(t, ixn.Accounts[0].IsSigner)
	assert.True(t, ixn.Accounts[1].IsSigner)
	assert.True(t, ixn.Accounts[1].IsWritable)
}

func TestDepositReserveLiquidityAndObligationCollateralInstruction(t *testing.T) {
	keys := testutil.GenerateKeys(t, 10)

	ixn := NewDepositReserveLiquidityAndObligationCollateralInstruction(
		&DepositReserveLiquidityAndObligationCollateralInstructionAccounts{
			Owner:                               keys[0],
			Obligation:                          keys[1],
			LendingMarket:                       keys[2],
			LendingMarketAuthority:              keys[3],
			Reserve:                             keys[4],
			ReserveLiquidityMint:                keys[5],
			ReserveLiquiditySupply:              keys[6],
			ReserveCollateralMint:               keys[7],
			ReserveDestinationDepositCollateral: keys[8],
			UserSourceLiquidity:                 keys[9],
		},
		&DepositReserveLiquidityAndObligationCollateralInstructionArgs{
			LiquidityAmount: 1_000_000,
		},
	)

	decompiled, err := DecompileDepositReserveLiquidityAndObligationCollateral(ixn)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Owner)
	assert.Equal(t, keys[1], decompiled.Obligation)
	assert.Equal(t, keys[6], decompiled.ReserveLiquiditySupply)
	assert.Equal(t, keys[9], decompiled.UserSourceLiquidity)
	assert.EqualValues(t, 1_000_000, decompiled.LiquidityAmount)

	_, err = DecompileWithdrawObligationCollateralAndRedeemReserveCollateral(ixn)
	assert.Equal(t, ErrInvalidInstructionData, err)

	ixn.Program = SYSTEM_PROGRAM_ID
	_, err = DecompileDepositReserveLiquidityAndObligationCollateral(ixn)
	assert.Equal(t, ErrInvalidProgram, err)
}

func TestRefreshInstructions(t *testing.T) {
	keys := testutil.GenerateKeys(t, 4)

	reserve := NewRefreshReserveInstruction(&RefreshReserveInstructionAccounts{
		Reserve:       keys[0],
		LendingMarket: keys[1],
	})
	assert.True(t, GetInstructionType(reserve.Data).IsRefresh())
	for _, account := range reserve.Accounts {
		assert.False(t, account.IsSigner)
	}

	obligation := NewRefreshObligationInstruction(&RefreshObligationInstructionAccounts{
		LendingMarket: keys[1],
		Obligation:    keys[2],
		Reserves:      []ed25519.PublicKey{keys[0], keys[3]},
	})
	assert.True(t, GetInstructionType(obligation.Data).IsRefresh())
	assert.Len(t, obligation.Accounts, 4)
}

func TestAddresses_Deterministic(t *testing.T) {
	keys := testutil.GenerateKeys(t, 2)

	first, bump, err := GetUserMetadataAddress(&GetUserMetadataAddressArgs{Owner: keys[0]})
	require.NoError(t, err)

	second, secondBump, err := GetUserMetadataAddress(&GetUserMetadataAddressArgs{Owner: keys[0]})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, bump, secondBump)

	other, _, err := GetUserMetadataAddress(&GetUserMetadataAddressArgs{Owner: keys[1]})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
