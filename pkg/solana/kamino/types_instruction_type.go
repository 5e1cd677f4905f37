package kamino

// InstructionType is the closed set of klend instructions known to this
// package. Each type is identified on the wire by its Anchor discriminator,
// sha256("global:<name>")[:8].
type InstructionType uint8

const (
	Unknown InstructionType = iota

	InstructionTypeInitLendingMarket
	InstructionTypeUpdateLendingMarket
	InstructionTypeInitReserve
	InstructionTypeUpdateReserveConfig
	InstructionTypeRedeemFees
	InstructionTypeWithdrawProtocolFee
	InstructionTypeSocializeLoss
	InstructionTypeMarkObligationForDeleveraging
	InstructionTypeRefreshReservesBatch
	InstructionTypeRefreshReserve
	InstructionTypeDepositReserveLiquidity
	InstructionTypeRedeemReserveCollateral
	InstructionTypeInitObligation
	InstructionTypeInitObligationFarmsForReserve
	InstructionTypeRefreshObligationFarmsForReserve
	InstructionTypeRefreshObligation
	InstructionTypeDepositObligationCollateral
	InstructionTypeDepositObligationCollateralV2
	InstructionTypeWithdrawObligationCollateral
	InstructionTypeWithdrawObligationCollateralV2
	InstructionTypeBorrowObligationLiquidity
	InstructionTypeBorrowObligationLiquidityV2
	InstructionTypeRepayObligationLiquidity
	InstructionTypeRepayObligationLiquidityV2
	InstructionTypeRepayAndWithdrawAndRedeem
	InstructionTypeDepositAndWithdraw
	InstructionTypeDepositReserveLiquidityAndObligationCollateral
	InstructionTypeDepositReserveLiquidityAndObligationCollateralV2
	InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateral
	InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateralV2
	InstructionTypeLiquidateObligationAndRedeemReserveCollateral
	InstructionTypeLiquidateObligationAndRedeemReserveCollateralV2
	InstructionTypeFlashRepayReserveLiquidity
	InstructionTypeFlashBorrowReserveLiquidity
	InstructionTypeRequestElevationGroup
	InstructionTypeInitReferrerTokenState
	InstructionTypeInitUserMetadata
	InstructionTypeWithdrawReferrerFees
	InstructionTypeInitReferrerStateAndShortUrl
	InstructionTypeDeleteReferrerStateAndShortUrl
	InstructionTypeSetObligationOrder
	InstructionTypeInitGlobalConfig
	InstructionTypeUpdateGlobalConfig
	InstructionTypeUpdateGlobalConfigAdmin
)

type instructionTypeInfo struct {
	name          string
	discriminator [8]byte
	refresh       bool
}

var instructionTypeInfos = map[InstructionType]instructionTypeInfo{
	InstructionTypeInitLendingMarket:                                        {"init_lending_market", [8]byte{0x22, 0xa2, 0x74, 0x0e, 0x65, 0x89, 0x5e, 0xef}, false},
	InstructionTypeUpdateLendingMarket:                                      {"update_lending_market", [8]byte{0xd1, 0x9d, 0x35, 0xd2, 0x61, 0xb4, 0x1f, 0x2d}, false},
	InstructionTypeInitReserve:                                              {"init_reserve", [8]byte{0x8a, 0xf5, 0x47, 0xe1, 0x99, 0x04, 0x03, 0x2b}, false},
	InstructionTypeUpdateReserveConfig:                                      {"update_reserve_config", [8]byte{0x3d, 0x94, 0x64, 0x46, 0x8f, 0x6b, 0x11, 0x0d}, false},
	InstructionTypeRedeemFees:                                               {"redeem_fees", [8]byte{0xd7, 0x27, 0xb4, 0x29, 0xad, 0x2e, 0xf8, 0xdc}, false},
	InstructionTypeWithdrawProtocolFee:                                      {"withdraw_protocol_fee", [8]byte{0x9e, 0xc9, 0x9e, 0xbd, 0x21, 0x5d, 0xa2, 0x67}, false},
	InstructionTypeSocializeLoss:                                            {"socialize_loss", [8]byte{0xf5, 0x4b, 0x5b, 0x00, 0xec, 0x61, 0x13, 0x03}, false},
	InstructionTypeMarkObligationForDeleveraging:                            {"mark_obligation_for_deleveraging", [8]byte{0xa4, 0x23, 0xb6, 0x13, 0x00, 0x74, 0xf3, 0x7f}, false},
	InstructionTypeRefreshReservesBatch:                                     {"refresh_reserves_batch", [8]byte{0x90, 0x6e, 0x1a, 0x67, 0xa2, 0xcc, 0xfc, 0x93}, true},
	InstructionTypeRefreshReserve:                                           {"refresh_reserve", [8]byte{0x02, 0xda, 0x8a, 0xeb, 0x4f, 0xc9, 0x19, 0x66}, true},
	InstructionTypeDepositReserveLiquidity:                                  {"deposit_reserve_liquidity", [8]byte{0xa9, 0xc9, 0x1e, 0x7e, 0x06, 0xcd, 0x66, 0x44}, false},
	InstructionTypeRedeemReserveCollateral:                                  {"redeem_reserve_collateral", [8]byte{0xea, 0x75, 0xb5, 0x7d, 0xb9, 0x8e, 0xdc, 0x1d}, false},
	InstructionTypeInitObligation:                                           {"init_obligation", [8]byte{0xfb, 0x0a, 0xe7, 0x4c, 0x1b, 0x0b, 0x9f, 0x60}, false},
	InstructionTypeInitObligationFarmsForReserve:                            {"init_obligation_farms_for_reserve", [8]byte{0x88, 0x3f, 0x0f, 0xba, 0xd3, 0x98, 0xa8, 0xa4}, false},
	InstructionTypeRefreshObligationFarmsForReserve:                         {"refresh_obligation_farms_for_reserve", [8]byte{0x8c, 0x90, 0xfd, 0x15, 0x0a, 0x4a, 0xf8, 0x03}, true},
	InstructionTypeRefreshObligation:                                        {"refresh_obligation", [8]byte{0x21, 0x84, 0x93, 0xe4, 0x97, 0xc0, 0x48, 0x59}, true},
	InstructionTypeDepositObligationCollateral:                              {"deposit_obligation_collateral", [8]byte{0x6c, 0xd1, 0x04, 0x48, 0x15, 0x16, 0x76, 0x85}, false},
	InstructionTypeDepositObligationCollateralV2:                            {"deposit_obligation_collateral_v2", [8]byte{0x89, 0x91, 0x97, 0x5e, 0xa7, 0x71, 0x04, 0x91}, false},
	InstructionTypeWithdrawObligationCollateral:                             {"withdraw_obligation_collateral", [8]byte{0x25, 0x74, 0xcd, 0x67, 0xf3, 0xc0, 0x5c, 0xc6}, false},
	InstructionTypeWithdrawObligationCollateralV2:                           {"withdraw_obligation_collateral_v2", [8]byte{0xca, 0xf9, 0x75, 0x72, 0xe7, 0xc0, 0x2f, 0x8a}, false},
	InstructionTypeBorrowObligationLiquidity:                                {"borrow_obligation_liquidity", [8]byte{0x79, 0x7f, 0x12, 0xcc, 0x49, 0xf5, 0xe1, 0x41}, false},
	InstructionTypeBorrowObligationLiquidityV2:                              {"borrow_obligation_liquidity_v2", [8]byte{0xa1, 0x80, 0x8f, 0xf5, 0xab, 0xc7, 0xc2, 0x06}, false},
	InstructionTypeRepayObligationLiquidity:                                 {"repay_obligation_liquidity", [8]byte{0x91, 0xb2, 0x0d, 0xe1, 0x4c, 0xf0, 0x93, 0x48}, false},
	InstructionTypeRepayObligationLiquidityV2:                               {"repay_obligation_liquidity_v2", [8]byte{0x74, 0xae, 0xd5, 0x4c, 0xb4, 0x35, 0xd2, 0x90}, false},
	InstructionTypeRepayAndWithdrawAndRedeem:                                {"repay_and_withdraw_and_redeem", [8]byte{0x02, 0x36, 0x98, 0x03, 0x94, 0x60, 0x6d, 0xda}, false},
	InstructionTypeDepositAndWithdraw:                                       {"deposit_and_withdraw", [8]byte{0x8d, 0x99, 0x27, 0x0f, 0x40, 0x3d, 0x58, 0x54}, false},
	InstructionTypeDepositReserveLiquidityAndObligationCollateral:           {"deposit_reserve_liquidity_and_obligation_collateral", [8]byte{0x81, 0xc7, 0x04, 0x02, 0xde, 0x27, 0x1a, 0x2e}, false},
	InstructionTypeDepositReserveLiquidityAndObligationCollateralV2:         {"deposit_reserve_liquidity_and_obligation_collateral_v2", [8]byte{0xd8, 0xe0, 0xbf, 0x1b, 0xcc, 0x97, 0x66, 0xaf}, false},
	InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateral:   {"withdraw_obligation_collateral_and_redeem_reserve_collateral", [8]byte{0x4b, 0x5d, 0x5d, 0xdc, 0x22, 0x96, 0xda, 0xc4}, false},
	InstructionTypeWithdrawObligationCollateralAndRedeemReserveCollateralV2: {"withdraw_obligation_collateral_and_redeem_reserve_collateral_v2", [8]byte{0xeb, 0x34, 0x77, 0x98, 0x95, 0xc5, 0x14, 0x07}, false},
	InstructionTypeLiquidateObligationAndRedeemReserveCollateral:            {"liquidate_obligation_and_redeem_reserve_collateral", [8]byte{0xb1, 0x47, 0x9a, 0xbc, 0xe2, 0x85, 0x4a, 0x37}, false},
	InstructionTypeLiquidateObligationAndRedeemReserveCollateralV2:          {"liquidate_obligation_and_redeem_reserve_collateral_v2", [8]byte{0xa2, 0xa1, 0x23, 0x8f, 0x1e, 0xbb, 0xb9, 0x67}, false},
	InstructionTypeFlashRepayReserveLiquidity:                               {"flash_repay_reserve_liquidity", [8]byte{0xb9, 0x75, 0x00, 0xcb, 0x60, 0xf5, 0xb4, 0xba}, false},
	InstructionTypeFlashBorrowReserveLiquidity:                              {"flash_borrow_reserve_liquidity", [8]byte{0x87, 0xe7, 0x34, 0xa7, 0x07, 0x34, 0xd4, 0xc1}, false},
	InstructionTypeRequestElevationGroup:                                    {"request_elevation_group", [8]byte{0x24, 0x77, 0xfb, 0x81, 0x22, 0xf0, 0x07, 0x93}, false},
	InstructionTypeInitReferrerTokenState:                                   {"init_referrer_token_state", [8]byte{0x74, 0x2d, 0x42, 0x94, 0x3a, 0x0d, 0xda, 0x73}, false},
	InstructionTypeInitUserMetadata:                                         {"init_user_metadata", [8]byte{0x75, 0xa9, 0xb0, 0x45, 0xc5, 0x17, 0x0f, 0xa2}, false},
	InstructionTypeWithdrawReferrerFees:                                     {"withdraw_referrer_fees", [8]byte{0xab, 0x76, 0x79, 0xc9, 0xe9, 0x8c, 0x17, 0xe4}, false},
	InstructionTypeInitReferrerStateAndShortUrl:                             {"init_referrer_state_and_short_url", [8]byte{0xa5, 0x13, 0x19, 0x7f, 0x64, 0x37, 0x1f, 0x5a}, false},
	InstructionTypeDeleteReferrerStateAndShortUrl:                           {"delete_referrer_state_and_short_url", [8]byte{0x99, 0xb9, 0x63, 0x1c, 0xe4, 0xb3, 0xbb, 0x96}, false},
	InstructionTypeSetObligationOrder:                                       {"set_obligation_order", [8]byte{0x51, 0x01, 0x63, 0x9c, 0xd3, 0x53, 0x4e, 0x2e}, false},
	InstructionTypeInitGlobalConfig:                                         {"init_global_config", [8]byte{0x8c, 0x88, 0xd6, 0x30, 0x57, 0x00, 0x78, 0xff}, false},
	InstructionTypeUpdateGlobalConfig:                                       {"update_global_config", [8]byte{0xa4, 0x54, 0x82, 0xbd, 0x6f, 0x3a, 0xfa, 0xc8}, false},
	InstructionTypeUpdateGlobalConfigAdmin:                                  {"update_global_config_admin", [8]byte{0xb8, 0x57, 0x17, 0xc1, 0x9c, 0xee, 0xaf, 0x77}, false},
}

var instructionTypesByDiscriminator = func() map[[8]byte]InstructionType {
	byDiscriminator := make(map[[8]byte]InstructionType, len(instructionTypeInfos))
	for instructionType, info := range instructionTypeInfos {
		byDiscriminator[info.discriminator] = instructionType
	}
	return byDiscriminator
}()

// GetInstructionType returns the instruction type identified by the leading
// discriminator of data, or Unknown.
func GetInstructionType(data []byte) InstructionType {
	if len(data) < 8 {
		return Unknown
	}

	var discriminator [8]byte
	copy(discriminator[:], data)
	return GetInstructionTypeByDiscriminator(discriminator)
}

func GetInstructionTypeByDiscriminator(discriminator [8]byte) InstructionType {
	instructionType, ok := instructionTypesByDiscriminator[discriminator]
	if !ok {
		return Unknown
	}
	return instructionType
}

// InstructionTypes returns every known instruction type.
func InstructionTypes() []InstructionType {
	res := make([]InstructionType, 0, len(instructionTypeInfos))
	for instructionType := Unknown + 1; int(instructionType) <= len(instructionTypeInfos); instructionType++ {
		res = append(res, instructionType)
	}
	return res
}

// Discriminator returns the 8 byte Anchor discriminator of the instruction.
func (t InstructionType) Discriminator() [8]byte {
	return instructionTypeInfos[t].discriminator
}

// IsRefresh reports whether the instruction only refreshes reserve or
// obligation state, and so never needs the authority of the obligation
// owner.
func (t InstructionType) IsRefresh() bool {
	return instructionTypeInfos[t].refresh
}

func (t InstructionType) String() string {
	info, ok := instructionTypeInfos[t]
	if !ok {
		return "unknown"
	}
	return info.name
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	discriminator := v.Discriminator()
	copy(dst[*offset:], discriminator[:])
	*offset += len(discriminator)
}
