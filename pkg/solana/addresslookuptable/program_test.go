package address_lookup_table

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/testutil"
)

func TestExtend(t *testing.T) {
	keys := testutil.GenerateKeys(t, 5)

	ixn := Extend(keys[0], keys[1], keys[2], keys[3], keys[4])
	require.Len(t, ixn.Data, 4+8+2*ed25519.PublicKeySize)
	assert.EqualValues(t, commandExtendLookupTable, binary.LittleEndian.Uint32(ixn.Data))
	assert.EqualValues(t, 2, binary.LittleEndian.Uint64(ixn.Data[4:]))
	assert.EqualValues(t, keys[3], ixn.Data[12:44])
	assert.EqualValues(t, keys[4], ixn.Data[44:])

	assert.True(t, IsLookupTableInstruction(ixn))
	assert.True(t, IsLookupTableInstruction(Create(keys[0], keys[1], keys[2], 100, 254)))
	assert.False(t, IsLookupTableInstruction(solana.NewInstruction(keys[0], nil)))
}
