package compute_budget

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// ProgramKey is ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

// MaxComputeUnitLimit is the largest compute unit limit a transaction may
// request.
const MaxComputeUnitLimit = 1_400_000

// Tags 0 (RequestUnits) and 1 (RequestHeapFrame) are never emitted.
const (
	commandSetComputeUnitLimit byte = 2
	commandSetComputeUnitPrice byte = 3
)

var (
	ErrInvalidLength      = errors.New("invalid length")
	ErrInvalidInstruction = errors.New("invalid instruction")
)

func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		binary.LittleEndian.AppendUint32([]byte{commandSetComputeUnitLimit}, computeUnitLimit),
	)
}

func SetComputeUnitPrice(microLamportsPerUnit uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		binary.LittleEndian.AppendUint64([]byte{commandSetComputeUnitPrice}, microLamportsPerUnit),
	)
}

// IsComputeBudgetInstruction reports whether ixn configures the compute
// budget of its transaction.
func IsComputeBudgetInstruction(ixn solana.Instruction) bool {
	return ixn.IsProgram(ProgramKey)
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	payload, err := payloadFor(data, commandSetComputeUnitLimit, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(payload), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	payload, err := payloadFor(data, commandSetComputeUnitPrice, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(payload), nil
}

func payloadFor(data []byte, command byte, size int) ([]byte, error) {
	if len(data) != 1+size {
		return nil, ErrInvalidLength
	}
	if data[0] != command {
		return nil, ErrInvalidInstruction
	}
	return data[1:], nil
}
