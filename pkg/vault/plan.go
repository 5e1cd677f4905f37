package vault

import (
	"crypto/ed25519"

	"github.com/google/uuid"

	"github.com/code-payments/vault-relay/pkg/relay"
	"github.com/code-payments/vault-relay/pkg/solana"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
)

// KaminoAction is the output of the klend transaction builder for a single
// retail operation.
type KaminoAction struct {
	// PreTxnIxs must land in a separate, earlier transaction
	PreTxnIxs []solana.Instruction

	SetupIxs   []solana.Instruction
	LendingIxs []solana.Instruction
	CleanupIxs []solana.Instruction
}

type StepKind uint8

const (
	StepKindUnknown StepKind = iota
	StepKindPassthrough
	StepKindCreateTokenAccount
	StepKindTokenLeg
	StepKindRelay
)

func (k StepKind) String() string {
	switch k {
	case StepKindPassthrough:
		return "passthrough"
	case StepKindCreateTokenAccount:
		return "create_token_account"
	case StepKindTokenLeg:
		return "token_leg"
	case StepKindRelay:
		return "relay"
	}
	return "unknown"
}

// Step is a single logical step of a Plan in final execution order.
type Step struct {
	Kind StepKind

	// Instruction is set for every step except token legs, which execute
	// within the outer relay call that carries them.
	Instruction solana.Instruction

	// Set for relay steps
	Envelope   *relay.Envelope
	Operations []string

	// Set for token leg steps
	TokenLeg *TokenLeg
}

// Plan is a fully assembled retail operation.
type Plan struct {
	// ID correlates log entries for the retail operation
	ID uuid.UUID

	Kind   vault_program.RelayKind
	User   ed25519.PublicKey
	Amount uint64

	// Pre are instructions to submit, in order, before any transaction in
	// Transactions
	Pre []solana.Instruction

	Steps []Step

	// Transactions are the instructions of each transaction, in submission
	// order. Each transaction is atomic on its own.
	Transactions [][]solana.Instruction
}

// TokenLegStep returns the index of the token leg step, or -1
func (p *Plan) TokenLegStep() int {
	for i, step := range p.Steps {
		if step.Kind == StepKindTokenLeg {
			return i
		}
	}
	return -1
}
