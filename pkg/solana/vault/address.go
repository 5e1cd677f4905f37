package vault_program

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

var (
	EscrowPrefix = []byte("escrow")
)

// GetEscrowAddress returns the program derived address that acts as the
// vault's delegated authority. It owns the pooled token account and is only
// ever authorized by the program itself using the returned bump.
func GetEscrowAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		EscrowPrefix,
	)
}

// GetEscrowSignerSeeds returns the seeds the program signs relayed calls
// with on behalf of the escrow.
func GetEscrowSignerSeeds(bump uint8) [][]byte {
	return [][]byte{EscrowPrefix, {bump}}
}
