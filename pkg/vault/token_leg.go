package vault

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/solana/token"
)

type Direction uint8

const (
	// DirectionIn moves funds from the user into the pool
	DirectionIn Direction = iota + 1

	// DirectionOut moves funds from the pool back to the user
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	}
	return "unknown"
}

// TokenLeg is the custody transfer between a user's external holding
// account and the vault's pool for a single retail operation. It executes
// once within the outer call that carries it.
//
// Deposits transfer in before the relayed instructions supply funds to
// klend. Withdrawals transfer out only after the relayed instructions have
// credited the pool.
type TokenLeg struct {
	Direction Direction
	Amount    uint64
	External  ed25519.PublicKey
	Pool      ed25519.PublicKey
}

// Source returns the account the leg debits
func (l *TokenLeg) Source() ed25519.PublicKey {
	if l.Direction == DirectionOut {
		return l.Pool
	}
	return l.External
}

// Destination returns the account the leg credits
func (l *TokenLeg) Destination() ed25519.PublicKey {
	if l.Direction == DirectionOut {
		return l.External
	}
	return l.Pool
}

// Transfer returns the SPL token transfer the vault program performs for the
// leg, authorized by the user for deposits and by the escrow for
// withdrawals.
func (l *TokenLeg) Transfer(user, escrow ed25519.PublicKey) solana.Instruction {
	authority := user
	if l.Direction == DirectionOut {
		authority = escrow
	}
	return token.Transfer(l.Source(), l.Destination(), authority, l.Amount)
}
