package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

var (
	UserMetadataPrefix           = []byte("user_meta")
	LendingMarketAuthorityPrefix = []byte("lma")
)

type GetUserMetadataAddressArgs struct {
	Owner ed25519.PublicKey
}

func GetUserMetadataAddress(args *GetUserMetadataAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		UserMetadataPrefix,
		args.Owner,
	)
}

type GetObligationAddressArgs struct {
	Tag           uint8
	Id            uint8
	Owner         ed25519.PublicKey
	LendingMarket ed25519.PublicKey
	Seed1         ed25519.PublicKey
	Seed2         ed25519.PublicKey
}

func GetObligationAddress(args *GetObligationAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		[]byte{args.Tag},
		[]byte{args.Id},
		args.Owner,
		args.LendingMarket,
		args.Seed1,
		args.Seed2,
	)
}

type GetLendingMarketAuthorityAddressArgs struct {
	LendingMarket ed25519.PublicKey
}

func GetLendingMarketAuthorityAddress(args *GetLendingMarketAuthorityAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		LendingMarketAuthorityPrefix,
		args.LendingMarket,
	)
}
