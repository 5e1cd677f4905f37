package relay

import (
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// MaxAccountsPerInstruction is the most accounts a relayed instruction can
// reference, since each count is encoded as a single byte.
const MaxAccountsPerInstruction = math.MaxUint8

// Envelope is the packed form of a relayed group. Payloads and
// AccountCounts are parallel, and Accounts is the concatenation of every
// instruction's accounts in order.
type Envelope struct {
	Payloads      [][]byte
	AccountCounts []byte
	Accounts      []solana.AccountMeta
}

// Encode packs a relayed group into an Envelope.
func Encode(group Group) (*Envelope, error) {
	if group.Classification != ClassificationRelayed {
		return nil, errors.Wrapf(ErrNotRelayed, "classification %s", group.Classification)
	}
	return EncodeInstructions(group.Instructions())
}

// EncodeInstructions packs instructions into an Envelope without regard for
// their classification.
func EncodeInstructions(ixns []solana.Instruction) (*Envelope, error) {
	env := &Envelope{
		Payloads:      make([][]byte, 0, len(ixns)),
		AccountCounts: make([]byte, 0, len(ixns)),
	}

	for i, ixn := range ixns {
		if len(ixn.Accounts) > MaxAccountsPerInstruction {
			return nil, errors.Wrapf(ErrGroupTooLarge, "instruction %d has %d accounts", i, len(ixn.Accounts))
		}

		payload := make([]byte, len(ixn.Data))
		copy(payload, ixn.Data)

		env.Payloads = append(env.Payloads, payload)
		env.AccountCounts = append(env.AccountCounts, byte(len(ixn.Accounts)))
		for _, account := range ixn.Accounts {
			env.Accounts = append(env.Accounts, account.Clone())
		}
	}

	return env, nil
}

// Validate checks the envelope's account counts describe its payloads and
// account list exactly.
func (e *Envelope) Validate() error {
	if len(e.Payloads) != len(e.AccountCounts) {
		return errors.Wrapf(ErrAccountCountMismatch, "%d payloads with %d account counts", len(e.Payloads), len(e.AccountCounts))
	}

	var total int
	for _, count := range e.AccountCounts {
		total += int(count)
	}
	if total != len(e.Accounts) {
		return errors.Wrapf(ErrAccountCountMismatch, "counts sum to %d with %d accounts", total, len(e.Accounts))
	}

	return nil
}

// Decode reconstructs the instructions packed into an Envelope, in order,
// each addressed to program. It's the exact inverse of Encode.
func Decode(program ed25519.PublicKey, env *Envelope) ([]solana.Instruction, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	res := make([]solana.Instruction, 0, len(env.Payloads))

	var start int
	for i, count := range env.AccountCounts {
		end := start + int(count)

		res = append(res, solana.NewInstruction(
			program,
			env.Payloads[i],
			env.Accounts[start:end]...,
		).Clone())

		start = end
	}

	return res, nil
}

// Clone returns a deep copy of the envelope.
func (e *Envelope) Clone() *Envelope {
	cloned := &Envelope{
		Payloads:      make([][]byte, len(e.Payloads)),
		AccountCounts: make([]byte, len(e.AccountCounts)),
		Accounts:      make([]solana.AccountMeta, len(e.Accounts)),
	}
	for i, payload := range e.Payloads {
		cloned.Payloads[i] = make([]byte, len(payload))
		copy(cloned.Payloads[i], payload)
	}
	copy(cloned.AccountCounts, e.AccountCounts)
	for i, account := range e.Accounts {
		cloned.Accounts[i] = account.Clone()
	}
	return cloned
}
