package relay

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// Limits are the capacity limits of a single transaction. A zero value
// leaves the corresponding dimension unbounded.
type Limits struct {
	MaxAccounts        int
	MaxTransactionSize int
	MaxComputeUnits    uint64
}

// Unit is a sequence of instructions that must be submitted within the same
// transaction, such as an outer relay call along with the token account
// creation it depends on.
type Unit struct {
	Instructions []solana.Instruction
	ComputeUnits uint64

	// AdjacentToNext keeps the unit in the same transaction as the unit that
	// follows it. It's set on refresh operations that must immediately
	// precede the operation they refresh.
	AdjacentToNext bool
}

// Chunk is a set of units that fit within a single transaction. Each chunk
// is atomic on its own, and nothing is coordinated across chunks.
type Chunk struct {
	Instructions []solana.Instruction
	ComputeUnits uint64
	Footprint    solana.Footprint
}

// ChunkUnits greedily packs units in order into as few transactions as
// possible under limits. Boundaries only fall between units, and never
// between a unit marked AdjacentToNext and its successor.
//
// Overhead instructions, such as compute budget instructions, are included
// in the footprint of every chunk but not in its instructions.
func ChunkUnits(payer ed25519.PublicKey, overhead []solana.Instruction, units []Unit, limits Limits) ([]Chunk, error) {
	var chunks []Chunk
	var current *Chunk

	for i, block := range joinAdjacentUnits(units) {
		if current != nil {
			candidate := extendChunk(payer, overhead, current, block)
			if fits(candidate, limits) {
				current = candidate
				continue
			}

			chunks = append(chunks, *current)
		}

		current = extendChunk(payer, overhead, &Chunk{}, block)
		if !fits(current, limits) {
			return nil, errors.Wrapf(
				ErrExceedsCapacity,
				"block %d: %d accounts, %d bytes, %d compute units",
				i,
				current.Footprint.Accounts,
				current.Footprint.Size,
				current.ComputeUnits,
			)
		}
	}

	if current != nil {
		chunks = append(chunks, *current)
	}
	return chunks, nil
}

// joinAdjacentUnits merges every unit marked AdjacentToNext with the unit
// after it, yielding the indivisible blocks of the sequence.
func joinAdjacentUnits(units []Unit) []Unit {
	var blocks []Unit

	var pending *Unit
	for _, unit := range units {
		if pending == nil {
			pending = &Unit{}
		}

		for _, ixn := range unit.Instructions {
			pending.Instructions = append(pending.Instructions, ixn.Clone())
		}
		pending.ComputeUnits += unit.ComputeUnits

		if unit.AdjacentToNext {
			continue
		}

		blocks = append(blocks, *pending)
		pending = nil
	}

	// A trailing adjacent unit has nothing to attach to
	if pending != nil {
		blocks = append(blocks, *pending)
	}

	return blocks
}

func extendChunk(payer ed25519.PublicKey, overhead []solana.Instruction, chunk *Chunk, block Unit) *Chunk {
	extended := &Chunk{
		Instructions: make([]solana.Instruction, 0, len(chunk.Instructions)+len(block.Instructions)),
		ComputeUnits: chunk.ComputeUnits + block.ComputeUnits,
	}
	extended.Instructions = append(extended.Instructions, chunk.Instructions...)
	extended.Instructions = append(extended.Instructions, block.Instructions...)

	all := make([]solana.Instruction, 0, len(overhead)+len(extended.Instructions))
	all = append(all, overhead...)
	all = append(all, extended.Instructions...)
	extended.Footprint = solana.EstimateFootprint(payer, all...)

	return extended
}

func fits(chunk *Chunk, limits Limits) bool {
	if limits.MaxComputeUnits > 0 && chunk.ComputeUnits > limits.MaxComputeUnits {
		return false
	}
	return chunk.Footprint.Fits(limits.MaxAccounts, limits.MaxTransactionSize)
}
