package solana

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/code-payments/vault-relay/pkg/solana/shortvec"
)

const (
	// MaxTransactionSize taken from: https://github.com/solana-labs/solana/blob/39b3ac6a8d29e14faa1de73d8b46d390ad41797b/sdk/src/packet.rs#L9-L13
	MaxTransactionSize = 1232

	// MaxAccountLocks is the maximum number of unique accounts a single
	// transaction may lock.
	MaxAccountLocks = 64

	signatureSize = ed25519.SignatureSize
	headerSize    = 3
	blockhashSize = sha256.Size
)

// Footprint is the resource usage of a set of instructions once compiled
// into a single legacy transaction.
type Footprint struct {
	Accounts   int // Unique accounts, including the payer and programs
	Signatures int
	Size       int // Serialized transaction size in bytes
}

// Fits reports whether the footprint is within the provided limits. A
// zero limit is treated as unbounded.
func (f Footprint) Fits(maxAccounts, maxSize int) bool {
	if maxAccounts > 0 && f.Accounts > maxAccounts {
		return false
	}
	if maxSize > 0 && f.Size > maxSize {
		return false
	}
	return true
}

// EstimateFootprint computes the Footprint of the instructions paid for by
// payer. Address lookup tables are not taken into account, so the result is
// an upper bound for versioned transactions.
func EstimateFootprint(payer ed25519.PublicKey, instructions ...Instruction) Footprint {
	signers := make(map[string]struct{})
	accounts := make(map[string]struct{})

	track := func(key ed25519.PublicKey, isSigner bool) {
		accounts[string(key)] = struct{}{}
		if isSigner {
			signers[string(key)] = struct{}{}
		}
	}

	track(payer, true)

	instructionsSize := shortvec.EncodedLen(len(instructions))
	for _, ixn := range instructions {
		track(ixn.Program, false)
		for _, account := range ixn.Accounts {
			track(account.PublicKey, account.IsSigner)
		}

		instructionsSize += 1 + // program index
			shortvec.EncodedLen(len(ixn.Accounts)) + len(ixn.Accounts) +
			shortvec.EncodedLen(len(ixn.Data)) + len(ixn.Data)
	}

	messageSize := headerSize +
		shortvec.EncodedLen(len(accounts)) + len(accounts)*ed25519.PublicKeySize +
		blockhashSize +
		instructionsSize

	return Footprint{
		Accounts:   len(accounts),
		Signatures: len(signers),
		Size:       shortvec.EncodedLen(len(signers)) + len(signers)*signatureSize + messageSize,
	}
}
