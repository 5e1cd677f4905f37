package solana

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58/base58"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// AccountMeta represents a single account reference within an instruction.
//
// IsSigner and IsWritable are independent flags.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// Clone returns a deep copy of the account meta
func (m AccountMeta) Clone() AccountMeta {
	return AccountMeta{
		PublicKey:  cloneKey(m.PublicKey),
		IsSigner:   m.IsSigner,
		IsWritable: m.IsWritable,
	}
}

// Equal reports whether both metas reference the same account with the
// same flags.
func (m AccountMeta) Equal(other AccountMeta) bool {
	return bytes.Equal(m.PublicKey, other.PublicKey) &&
		m.IsSigner == other.IsSigner &&
		m.IsWritable == other.IsWritable
}

func (m AccountMeta) String() string {
	var flags string
	if m.IsSigner {
		flags += "s"
	}
	if m.IsWritable {
		flags += "w"
	}
	return base58.Encode(m.PublicKey) + "[" + flags + "]"
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// Clone returns a deep copy of the instruction, so the result can be
// modified without affecting the original.
func (i Instruction) Clone() Instruction {
	cloned := Instruction{
		Program: cloneKey(i.Program),
	}

	if i.Data != nil {
		cloned.Data = make([]byte, len(i.Data))
		copy(cloned.Data, i.Data)
	}

	if i.Accounts != nil {
		cloned.Accounts = make([]AccountMeta, len(i.Accounts))
		for j, account := range i.Accounts {
			cloned.Accounts[j] = account.Clone()
		}
	}

	return cloned
}

// Equal reports whether both instructions target the same program with
// identical data and account references.
func (i Instruction) Equal(other Instruction) bool {
	if !bytes.Equal(i.Program, other.Program) {
		return false
	}
	if !bytes.Equal(i.Data, other.Data) {
		return false
	}
	if len(i.Accounts) != len(other.Accounts) {
		return false
	}
	for j := range i.Accounts {
		if !i.Accounts[j].Equal(other.Accounts[j]) {
			return false
		}
	}
	return true
}

// IsProgram reports whether the instruction is addressed to program.
func (i Instruction) IsProgram(program ed25519.PublicKey) bool {
	return bytes.Equal(i.Program, program)
}

func cloneKey(key ed25519.PublicKey) ed25519.PublicKey {
	if key == nil {
		return nil
	}
	cloned := make(ed25519.PublicKey, len(key))
	copy(cloned, key)
	return cloned
}
