package vault_program

import (
	"bytes"
	"crypto/ed25519"

	"github.com/near/borsh-go"
	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
)

var (
	depositInstructionDiscriminator = [8]byte{
		242, 35, 198, 137, 82, 225, 242, 182,
	}
	withdrawInstructionDiscriminator = [8]byte{
		183, 18, 70, 156, 148, 109, 161, 34,
	}
)

// RelayInstructionAccountsSize is the number of fixed accounts that precede
// the relayed accounts of a deposit or withdraw instruction.
const RelayInstructionAccountsSize = 9

type RelayKind uint8

const (
	RelayKindUnknown RelayKind = iota
	RelayKindDeposit
	RelayKindWithdraw
)

func (k RelayKind) String() string {
	switch k {
	case RelayKindDeposit:
		return "deposit"
	case RelayKindWithdraw:
		return "withdraw"
	}
	return "unknown"
}

// RelayInstructionArgs are the arguments shared by the deposit and withdraw
// instructions. IxDatas and IxAccountsCounts are parallel, and the sum of
// IxAccountsCounts is the number of relayed accounts that follow the fixed
// instruction accounts.
type RelayInstructionArgs struct {
	IxDatas          [][]byte
	IxAccountsCounts []byte
	Amount           uint64
}

type RelayInstructionAccounts struct {
	User               ed25519.PublicKey
	UserTokenAccount   ed25519.PublicKey
	Escrow             ed25519.PublicKey
	EscrowTokenAccount ed25519.PublicKey
	TokenMint          ed25519.PublicKey

	// Relayed accounts, in the order of IxAccountsCounts
	RemainingAccounts []solana.AccountMeta
}

// NewDepositInstruction moves Amount from the user into the escrow token
// account, then invokes every relayed instruction against klend with the
// escrow as signer.
func NewDepositInstruction(
	accounts *RelayInstructionAccounts,
	args *RelayInstructionArgs,
) solana.Instruction {
	return newRelayInstruction(depositInstructionDiscriminator, accounts, args)
}

// NewWithdrawInstruction invokes every relayed instruction against klend
// with the escrow as signer, then moves Amount from the escrow token account
// back to the user.
func NewWithdrawInstruction(
	accounts *RelayInstructionAccounts,
	args *RelayInstructionArgs,
) solana.Instruction {
	return newRelayInstruction(withdrawInstructionDiscriminator, accounts, args)
}

func newRelayInstruction(
	discriminator [8]byte,
	accounts *RelayInstructionAccounts,
	args *RelayInstructionArgs,
) solana.Instruction {
	encoded, err := borsh.Serialize(*args)
	if err != nil {
		// Only slices and integers are serialized
		panic(err)
	}

	data := make([]byte, 0, len(discriminator)+len(encoded))
	data = append(data, discriminator[:]...)
	data = append(data, encoded...)

	accountMetas := make([]solana.AccountMeta, 0, RelayInstructionAccountsSize+len(accounts.RemainingAccounts))
	accountMetas = append(accountMetas,
		solana.AccountMeta{
			PublicKey:  accounts.User,
			IsWritable: true,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.UserTokenAccount,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Escrow,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  accounts.EscrowTokenAccount,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  accounts.TokenMint,
			IsWritable: false,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  KAMINO_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  SPL_ASSOCIATED_TOKEN_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  SPL_TOKEN_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
	)
	for _, account := range accounts.RemainingAccounts {
		accountMetas = append(accountMetas, account.Clone())
	}

	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: accountMetas,
	}
}

// GetRelayKind returns the kind of relay instruction, or RelayKindUnknown
// if the instruction isn't a deposit or withdraw against the vault program.
func GetRelayKind(ixn solana.Instruction) RelayKind {
	if !ixn.IsProgram(PROGRAM_ID) || len(ixn.Data) < 8 {
		return RelayKindUnknown
	}

	switch {
	case bytes.Equal(ixn.Data[:8], depositInstructionDiscriminator[:]):
		return RelayKindDeposit
	case bytes.Equal(ixn.Data[:8], withdrawInstructionDiscriminator[:]):
		return RelayKindWithdraw
	}
	return RelayKindUnknown
}

// DecodeDepositInstruction is the inverse of NewDepositInstruction.
func DecodeDepositInstruction(ixn solana.Instruction) (*RelayInstructionArgs, *RelayInstructionAccounts, error) {
	return decodeRelayInstruction(RelayKindDeposit, ixn)
}

// DecodeWithdrawInstruction is the inverse of NewWithdrawInstruction.
func DecodeWithdrawInstruction(ixn solana.Instruction) (*RelayInstructionArgs, *RelayInstructionAccounts, error) {
	return decodeRelayInstruction(RelayKindWithdraw, ixn)
}

func decodeRelayInstruction(expected RelayKind, ixn solana.Instruction) (*RelayInstructionArgs, *RelayInstructionAccounts, error) {
	if !ixn.IsProgram(PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if GetRelayKind(ixn) != expected {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(ixn.Accounts) < RelayInstructionAccountsSize {
		return nil, nil, ErrInvalidAccounts
	}

	var args RelayInstructionArgs
	if err := borsh.Deserialize(&args, ixn.Data[8:]); err != nil {
		return nil, nil, errors.Wrap(ErrInvalidInstructionData, err.Error())
	}
	if len(args.IxDatas) != len(args.IxAccountsCounts) {
		return nil, nil, ErrInvalidInstructionData
	}

	fixed := ixn.Accounts[:RelayInstructionAccountsSize]
	if !fixed[5].PublicKey.Equal(KAMINO_PROGRAM_ID) ||
		!fixed[6].PublicKey.Equal(SPL_ASSOCIATED_TOKEN_PROGRAM_ID) ||
		!fixed[7].PublicKey.Equal(SPL_TOKEN_PROGRAM_ID) ||
		!fixed[8].PublicKey.Equal(SYSTEM_PROGRAM_ID) {
		return nil, nil, ErrInvalidAccounts
	}

	// The user authorizes the token leg and every relayed call
	if !fixed[0].IsSigner || !fixed[0].IsWritable {
		return nil, nil, ErrInvalidAccounts
	}

	accounts := &RelayInstructionAccounts{
		User:               fixed[0].PublicKey,
		UserTokenAccount:   fixed[1].PublicKey,
		Escrow:             fixed[2].PublicKey,
		EscrowTokenAccount: fixed[3].PublicKey,
		TokenMint:          fixed[4].PublicKey,
	}
	for _, account := range ixn.Accounts[RelayInstructionAccountsSize:] {
		accounts.RemainingAccounts = append(accounts.RemainingAccounts, account.Clone())
	}

	return &args, accounts, nil
}
