package relay

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

type Classification uint8

const (
	ClassificationUnknown Classification = iota
	ClassificationRelayed
	ClassificationPassthrough
)

func (c Classification) String() string {
	switch c {
	case ClassificationRelayed:
		return "relayed"
	case ClassificationPassthrough:
		return "passthrough"
	}
	return "unknown"
}

// Classified is an instruction along with its classification. Operation is
// only set for instructions addressed to the relayed program.
type Classified struct {
	Instruction    solana.Instruction
	Classification Classification
	Operation      *Operation
}

// IsRefresh reports whether the instruction is a refresh operation of the
// relayed program.
func (c Classified) IsRefresh() bool {
	return c.Operation != nil && c.Operation.Refresh
}

// Classifier decides which instructions of the relayed program need the
// vault's delegated authority.
type Classifier struct {
	program   ed25519.PublicKey
	directory Directory
}

// NewClassifier returns a Classifier for instructions addressed to program.
func NewClassifier(program ed25519.PublicKey, directory Directory) *Classifier {
	return &Classifier{
		program:   program,
		directory: directory,
	}
}

// Classify returns the classification of a single instruction. Instructions
// for other programs are always passed through. Unknown discriminators are
// an error and are never assigned a default classification.
func (c *Classifier) Classify(ixn solana.Instruction) (Classification, error) {
	classification, _, err := c.classify(ixn)
	return classification, err
}

// ClassifyAll classifies every instruction in order, and fails on the first
// instruction that can't be classified.
func (c *Classifier) ClassifyAll(ixns []solana.Instruction) ([]Classified, error) {
	res := make([]Classified, 0, len(ixns))
	for i, ixn := range ixns {
		classification, operation, err := c.classify(ixn)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}

		res = append(res, Classified{
			Instruction:    ixn.Clone(),
			Classification: classification,
			Operation:      operation,
		})
	}
	return res, nil
}

func (c *Classifier) classify(ixn solana.Instruction) (Classification, *Operation, error) {
	if !ixn.IsProgram(c.program) {
		return ClassificationPassthrough, nil, nil
	}

	if len(ixn.Data) < 8 {
		return ClassificationUnknown, nil, errors.Wrapf(ErrUnknownInstruction, "data too short (%d bytes)", len(ixn.Data))
	}

	var discriminator [8]byte
	copy(discriminator[:], ixn.Data)

	operation, ok := c.directory.Lookup(discriminator)
	if !ok {
		return ClassificationUnknown, nil, errors.Wrapf(ErrUnknownInstruction, "discriminator %s", hex.EncodeToString(discriminator[:]))
	}

	if operation.Refresh {
		return ClassificationPassthrough, &operation, nil
	}
	return ClassificationRelayed, &operation, nil
}
