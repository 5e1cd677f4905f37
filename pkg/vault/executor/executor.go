package executor

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/vault-relay/pkg/metrics"
	"github.com/code-payments/vault-relay/pkg/relay"
	"github.com/code-payments/vault-relay/pkg/solana"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
	"github.com/code-payments/vault-relay/pkg/vault"
)

const (
	metricsStructName = "vault.executor"

	executedEventName         = "VaultRelayExecuted"
	rolledBackCountMetricName = "VaultRelayRolledBack"
)

// Executor is the reference behaviour of the vault program's deposit and
// withdraw instructions. Each outer call is executed as a single unit
// against a Runtime.
type Executor struct {
	log           *logrus.Entry
	vault         *vault.Vault
	kaminoProgram ed25519.PublicKey
	runtime       Runtime
}

func New(v *vault.Vault, kaminoProgram ed25519.PublicKey, runtime Runtime) *Executor {
	return &Executor{
		log:           logrus.StandardLogger().WithField("type", "vault/executor"),
		vault:         v,
		kaminoProgram: kaminoProgram,
		runtime:       runtime,
	}
}

// Execute runs the outer vault instruction. Either every relayed sub-call and
// the token leg it carries take effect, or none do.
func (e *Executor) Execute(ctx context.Context, outer solana.Instruction) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Execute")
	defer tracer.End()

	kind := vault_program.GetRelayKind(outer)
	tracer.AddAttribute("kind", kind.String())

	log := e.log.WithFields(logrus.Fields{
		"method": "Execute",
		"kind":   kind.String(),
	})

	defer func() {
		if err != nil {
			tracer.OnError(err)
		}
	}()

	var args *vault_program.RelayInstructionArgs
	var accounts *vault_program.RelayInstructionAccounts
	switch kind {
	case vault_program.RelayKindDeposit:
		args, accounts, err = vault_program.DecodeDepositInstruction(outer)
	case vault_program.RelayKindWithdraw:
		args, accounts, err = vault_program.DecodeWithdrawInstruction(outer)
	default:
		return ErrUnsupportedInstruction
	}
	if err != nil {
		return errors.Wrap(err, "error decoding outer instruction")
	}

	tracer.AddKeyAttribute("user", accounts.User)

	log = log.WithFields(logrus.Fields{
		"user":   base58.Encode(accounts.User),
		"amount": args.Amount,
	})

	if err := e.validateAccounts(accounts); err != nil {
		return err
	}

	subCalls, err := e.decodeSubCalls(args, accounts)
	if err != nil {
		return err
	}

	leg := &vault.TokenLeg{
		Direction: vault.DirectionIn,
		Amount:    args.Amount,
		External:  accounts.UserTokenAccount,
		Pool:      e.vault.Pool,
	}
	if kind == vault_program.RelayKindWithdraw {
		leg.Direction = vault.DirectionOut
	}

	// Decoding rejects outer calls the user hasn't signed
	txn, err := e.runtime.Begin(ctx, e.vault.Program, accounts.User)
	if err != nil {
		return errors.Wrap(err, "error beginning transaction")
	}

	err = e.execute(ctx, txn, accounts, leg, subCalls)
	if err != nil {
		log.WithError(err).Warn("rolling back relayed call")
		metrics.RecordCount(ctx, rolledBackCountMetricName, 1)

		if rollbackErr := txn.Rollback(ctx); rollbackErr != nil {
			log.WithError(rollbackErr).Warn("failure rolling back transaction")
		}
		return err
	}

	if err := txn.Commit(ctx); err != nil {
		return errors.Wrap(err, "error committing transaction")
	}

	log.WithField("sub_calls", len(subCalls)).Debug("executed relayed call")

	metrics.RecordEvent(ctx, executedEventName, map[string]interface{}{
		"kind":      kind.String(),
		"sub_calls": len(subCalls),
		"amount":    args.Amount,
	})

	return nil
}

func (e *Executor) execute(ctx context.Context, txn Transaction, accounts *vault_program.RelayInstructionAccounts, leg *vault.TokenLeg, subCalls []solana.Instruction) error {
	if err := txn.CreateTokenAccountIfAbsent(ctx, e.vault.Pool, e.vault.Address, e.vault.Mint); err != nil {
		return errors.Wrap(err, "error creating pool account")
	}

	if leg.Direction == vault.DirectionIn {
		if err := e.transfer(ctx, txn, accounts, leg); err != nil {
			return err
		}
	}

	for i, subCall := range subCalls {
		if err := txn.InvokeSigned(ctx, subCall, e.vault.SignerSeeds()); err != nil {
			return errors.Wrapf(err, "error invoking sub-call %d", i)
		}
	}

	if leg.Direction == vault.DirectionOut {
		if err := e.transfer(ctx, txn, accounts, leg); err != nil {
			return err
		}
	}

	return nil
}

func (e *Executor) transfer(ctx context.Context, txn Transaction, accounts *vault_program.RelayInstructionAccounts, leg *vault.TokenLeg) error {
	if leg.Amount == 0 {
		return nil
	}

	var err error
	switch leg.Direction {
	case vault.DirectionIn:
		err = txn.Transfer(ctx, leg.Source(), leg.Destination(), accounts.User, leg.Amount, nil)
	case vault.DirectionOut:
		err = txn.Transfer(ctx, leg.Source(), leg.Destination(), e.vault.Address, leg.Amount, e.vault.SignerSeeds())
	}
	if err != nil {
		return errors.Wrapf(err, "error transferring %s", leg.Direction)
	}
	return nil
}

func (e *Executor) validateAccounts(accounts *vault_program.RelayInstructionAccounts) error {
	if !bytes.Equal(accounts.Escrow, e.vault.Address) {
		return errors.Wrap(vault.ErrInvalidVault, "unexpected escrow")
	}
	if !bytes.Equal(accounts.EscrowTokenAccount, e.vault.Pool) {
		return errors.Wrap(vault.ErrInvalidVault, "unexpected escrow token account")
	}
	if !bytes.Equal(accounts.TokenMint, e.vault.Mint) {
		return errors.Wrap(vault.ErrInvalidVault, "unexpected mint")
	}
	return nil
}

// decodeSubCalls reconstructs the relayed instructions with the escrow
// restored as a signer, which the vault program authorizes with its seeds.
func (e *Executor) decodeSubCalls(args *vault_program.RelayInstructionArgs, accounts *vault_program.RelayInstructionAccounts) ([]solana.Instruction, error) {
	env := &relay.Envelope{
		Payloads:      args.IxDatas,
		AccountCounts: args.IxAccountsCounts,
		Accounts:      accounts.RemainingAccounts,
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	for _, account := range accounts.RemainingAccounts {
		if account.IsSigner && bytes.Equal(account.PublicKey, e.vault.Address) {
			return nil, errors.Wrap(vault.ErrInvalidVault, "escrow marked as signer")
		}
	}

	subCalls, err := relay.Decode(e.kaminoProgram, env)
	if err != nil {
		return nil, err
	}

	for _, subCall := range subCalls {
		for i := range subCall.Accounts {
			if bytes.Equal(subCall.Accounts[i].PublicKey, e.vault.Address) {
				subCall.Accounts[i].IsSigner = true
			}
		}
	}
	return subCalls, nil
}
