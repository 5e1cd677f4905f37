package relay

import (
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
)

// Operation is a known operation of the relayed program.
type Operation struct {
	Name string

	// Refresh operations only update reserve or obligation state and are
	// authorized without the vault.
	Refresh bool
}

// Directory maps the 8 byte discriminator of a relayed program instruction
// to the operation it invokes.
type Directory interface {
	Lookup(discriminator [8]byte) (Operation, bool)
}

type staticDirectory struct {
	operations map[[8]byte]Operation
}

// NewStaticDirectory returns an immutable Directory over a copy of the
// provided operations.
func NewStaticDirectory(operations map[[8]byte]Operation) Directory {
	copied := make(map[[8]byte]Operation, len(operations))
	for discriminator, operation := range operations {
		copied[discriminator] = operation
	}
	return &staticDirectory{operations: copied}
}

// Lookup implements Directory.Lookup
func (d *staticDirectory) Lookup(discriminator [8]byte) (Operation, bool) {
	operation, ok := d.operations[discriminator]
	return operation, ok
}

var kaminoDirectory = func() Directory {
	operations := make(map[[8]byte]Operation)
	for _, instructionType := range kamino.InstructionTypes() {
		operations[instructionType.Discriminator()] = Operation{
			Name:    instructionType.String(),
			Refresh: instructionType.IsRefresh(),
		}
	}
	return NewStaticDirectory(operations)
}()

// KaminoDirectory returns the Directory of every known klend instruction.
func KaminoDirectory() Directory {
	return kaminoDirectory
}
