package executor

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

var (
	ErrMissingSignature       = errors.New("missing required signature")
	ErrInvalidAuthority       = errors.New("authority doesn't own the token account")
	ErrTokenAccountNotFound   = errors.New("token account not found")
	ErrTokenAccountExists     = errors.New("token account already exists")
	ErrMintMismatch           = errors.New("token accounts have different mints")
	ErrUnknownProgram         = errors.New("no handler for program")
	ErrTransactionClosed      = errors.New("transaction already committed or rolled back")
	ErrUnsupportedInstruction = errors.New("unsupported vault instruction")
)

// Runtime is where the vault program's effects are applied. Implementations
// must apply everything done within a Transaction atomically.
type Runtime interface {
	// Begin starts a transaction on behalf of program, with signers as the
	// signatures on the outer instruction. Program derived addresses of
	// program can additionally be authorized with signer seeds.
	Begin(ctx context.Context, program ed25519.PublicKey, signers ...ed25519.PublicKey) (Transaction, error)
}

// Transaction is a unit of work against a Runtime. No effect is visible
// outside the transaction until Commit, and Rollback discards every effect.
type Transaction interface {
	// CreateTokenAccountIfAbsent creates account for owner and mint if it
	// doesn't exist. ErrMintMismatch and ErrInvalidAuthority are returned when
	// an existing account doesn't match.
	CreateTokenAccountIfAbsent(ctx context.Context, account, owner, mint ed25519.PublicKey) error

	// Transfer moves amount between token accounts. The authority must own
	// source and be either an outer signer or the address derived from
	// signerSeeds. ErrInsufficientFunds from the vault package is returned
	// when source can't cover amount.
	Transfer(ctx context.Context, source, destination, authority ed25519.PublicKey, amount uint64, signerSeeds [][]byte) error

	// InvokeSigned invokes ixn as a cross-program call. Every account marked
	// as a signer must be an outer signer or the address derived from
	// signerSeeds.
	InvokeSigned(ctx context.Context, ixn solana.Instruction, signerSeeds [][]byte) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
