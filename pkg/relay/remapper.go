package relay

import (
	"crypto/ed25519"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// Remapper binds the authority slots of externally built instructions to
// the end user, and ensures the vault is never expected to sign from
// outside the vault program.
//
// For every account:
//   - the vault becomes writable and non-signing, regardless of its flags
//   - any other signing writable account becomes the user
//
// The vault check is evaluated first, so the vault itself is never rewritten
// to the user and remapping is idempotent.
type Remapper struct {
	user  ed25519.PublicKey
	vault ed25519.PublicKey
}

// NewRemapper returns a Remapper binding authority slots to user.
func NewRemapper(user, vault ed25519.PublicKey) *Remapper {
	return &Remapper{
		user:  user,
		vault: vault,
	}
}

// RemapAccount returns the remapped copy of a single account reference.
func (r *Remapper) RemapAccount(account solana.AccountMeta) solana.AccountMeta {
	if account.PublicKey.Equal(r.vault) {
		return solana.AccountMeta{
			PublicKey:  cloneKey(r.vault),
			IsSigner:   false,
			IsWritable: true,
		}
	}

	remapped := account.Clone()
	if account.IsSigner && account.IsWritable {
		remapped.PublicKey = cloneKey(r.user)
	}
	return remapped
}

// RemapInstruction returns a copy of ixn with every account remapped.
func (r *Remapper) RemapInstruction(ixn solana.Instruction) solana.Instruction {
	remapped := ixn.Clone()
	for i, account := range ixn.Accounts {
		remapped.Accounts[i] = r.RemapAccount(account)
	}
	return remapped
}

// RemapAll remaps every classified instruction, keeping classifications.
func (r *Remapper) RemapAll(classified []Classified) []Classified {
	res := make([]Classified, len(classified))
	for i, c := range classified {
		res[i] = Classified{
			Instruction:    r.RemapInstruction(c.Instruction),
			Classification: c.Classification,
			Operation:      c.Operation,
		}
	}
	return res
}

func cloneKey(key ed25519.PublicKey) ed25519.PublicKey {
	if key == nil {
		return nil
	}
	cloned := make(ed25519.PublicKey, len(key))
	copy(cloned, key)
	return cloned
}
