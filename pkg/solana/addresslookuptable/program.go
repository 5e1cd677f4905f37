package address_lookup_table

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/system"
)

// Reference: https://github.com/solana-program/address-lookup-table/blob/main/program/src/instruction.rs

// AddressLookupTab1e1111111111111111111111111
var ProgramKey = ed25519.PublicKey{2, 119, 166, 175, 151, 51, 155, 122, 200, 141, 24, 146, 201, 4, 70, 245, 0, 2, 48, 146, 102, 246, 46, 83, 193, 24, 36, 73, 130, 0, 0, 0}

// Instruction tags are little-endian u32s. Freeze, deactivate and close are
// never emitted here.
const (
	commandCreateLookupTable uint32 = 0
	commandExtendLookupTable uint32 = 2
)

// IsLookupTableInstruction reports whether the instruction manages an
// address lookup table. Such instructions must land before any transaction
// that references the table.
func IsLookupTableInstruction(ixn solana.Instruction) bool {
	return ixn.IsProgram(ProgramKey)
}

func Create(alt, authority, payer ed25519.PublicKey, recentSlot uint64, bumpSeed uint8) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, commandCreateLookupTable)
	data = binary.LittleEndian.AppendUint64(data, recentSlot)
	data = append(data, bumpSeed)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

func Extend(alt, authority, payer ed25519.PublicKey, addresses ...ed25519.PublicKey) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, commandExtendLookupTable)
	data = binary.LittleEndian.AppendUint64(data, uint64(len(addresses)))
	for _, address := range addresses {
		data = append(data, address...)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}
