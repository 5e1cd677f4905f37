package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/testutil"
)

// Taken from: https://github.com/solana-labs/solana/blob/14339dec0a960e8161d1165b6a8e5cfb73e78f23/sdk/src/transaction.rs#L523
// with the keypair adjusted so the encoded public key is correct.
const rustGeneratedAdjusted = "ATMfBMZ8phHEheLph8K9TJhRKhnE4qNZvWiXdUdJRmlTCRsQjWmW2CkQJeRHBCcsqFm2gynjL40M9mTe0Dxp4QIBAAEDfEya6wnC7f3Cv53qnOEywwIJ928rIdqAlfXYI1adXroBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="

func TestEstimateFootprint_CrossImpl(t *testing.T) {
	keypair := ed25519.NewKeyFromSeed([]byte{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32, 255, 101, 36, 24, 124, 23,
		167, 21, 132, 204, 155, 5, 185, 58, 121, 75})
	payer := keypair.Public().(ed25519.PublicKey)
	programID := ed25519.PublicKey{2, 2, 2, 4, 5, 6, 7, 8, 9, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 8, 7, 6, 5, 4,
		2, 2, 2}
	to := ed25519.PublicKey{1, 1, 1, 4, 5, 6, 7, 8, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 8, 7, 6, 5, 4, 1, 1, 1}

	generated, err := base64.StdEncoding.DecodeString(rustGeneratedAdjusted)
	require.NoError(t, err)

	footprint := EstimateFootprint(
		payer,
		NewInstruction(
			programID,
			[]byte{1, 2, 3},
			NewAccountMeta(payer, true),
			NewAccountMeta(to, false),
		),
	)
	assert.Equal(t, 3, footprint.Accounts)
	assert.Equal(t, 1, footprint.Signatures)
	assert.Equal(t, len(generated), footprint.Size)
}

func TestEstimateFootprint_Deduplicates(t *testing.T) {
	keys := testutil.GenerateKeys(t, 4)

	single := EstimateFootprint(keys[0], NewInstruction(keys[1], []byte{1}, NewAccountMeta(keys[2], false)))
	double := EstimateFootprint(
		keys[0],
		NewInstruction(keys[1], []byte{1}, NewAccountMeta(keys[2], false)),
		NewInstruction(keys[1], []byte{1}, NewReadonlyAccountMeta(keys[2], false), NewReadonlyAccountMeta(keys[3], true)),
	)

	assert.Equal(t, 3, single.Accounts)
	assert.Equal(t, 4, double.Accounts)
	assert.Equal(t, 1, single.Signatures)
	assert.Equal(t, 2, double.Signatures)
	assert.Greater(t, double.Size, single.Size)
}

func TestFootprint_Fits(t *testing.T) {
	footprint := Footprint{Accounts: 10, Size: 500}

	assert.True(t, footprint.Fits(10, 500))
	assert.True(t, footprint.Fits(0, 0))
	assert.False(t, footprint.Fits(9, 0))
	assert.False(t, footprint.Fits(0, 499))
}
