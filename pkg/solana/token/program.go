package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

// ProgramKey is the SPL token program: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

// Command is the leading tag byte of a token program instruction.
type Command byte

// Only the commands this module emits or inspects are named.
const (
	CommandTransfer     Command = 3
	CommandCloseAccount Command = 9

	CommandUnknown Command = 0xff
)

const transferDataSize = 1 + 8

// GetCommand returns the token command encoded by ixn.
func GetCommand(ixn solana.Instruction) (Command, error) {
	if !ixn.IsProgram(ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(ixn.Data) == 0 {
		return CommandUnknown, errors.New("token instruction missing data")
	}
	return Command(ixn.Data[0]), nil
}

// Transfer moves amount tokens from source to destination, authorized by
// owner.
//
// Accounts: source [w], destination [w], owner [s].
func Transfer(source, destination, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint64([]byte{byte(CommandTransfer)}, amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type TransferInstruction struct {
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
}

// DecompileTransfer parses a Transfer instruction. Extra trailing accounts
// (multisig signers) are allowed.
func DecompileTransfer(ixn solana.Instruction) (*TransferInstruction, error) {
	cmd, err := GetCommand(ixn)
	if err != nil {
		return nil, err
	}
	if cmd != CommandTransfer {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(ixn.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(ixn.Accounts))
	}
	if len(ixn.Data) != transferDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(ixn.Data))
	}

	return &TransferInstruction{
		Source:      ixn.Accounts[0].PublicKey,
		Destination: ixn.Accounts[1].PublicKey,
		Owner:       ixn.Accounts[2].PublicKey,
		Amount:      binary.LittleEndian.Uint64(ixn.Data[1:]),
	}, nil
}
