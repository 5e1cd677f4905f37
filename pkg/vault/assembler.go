package vault

import (
	"context"
	"crypto/ed25519"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/vault-relay/pkg/metrics"
	"github.com/code-payments/vault-relay/pkg/relay"
	"github.com/code-payments/vault-relay/pkg/solana"
	address_lookup_table "github.com/code-payments/vault-relay/pkg/solana/addresslookuptable"
	compute_budget "github.com/code-payments/vault-relay/pkg/solana/computebudget"
	"github.com/code-payments/vault-relay/pkg/solana/kamino"
	"github.com/code-payments/vault-relay/pkg/solana/token"
	vault_program "github.com/code-payments/vault-relay/pkg/solana/vault"
)

const (
	metricsStructName = "vault.assembler"

	planBuiltEventName = "VaultRelayPlanBuilt"
)

// Assembler turns the klend builder output for a retail operation into a
// Plan that relays every sensitive instruction through the vault program.
type Assembler struct {
	log        *logrus.Entry
	conf       *conf
	vault      *Vault
	classifier *relay.Classifier
}

func NewAssembler(vault *Vault, configProvider ConfigProvider) *Assembler {
	return &Assembler{
		log:        logrus.StandardLogger().WithField("type", "vault/assembler"),
		conf:       configProvider(),
		vault:      vault,
		classifier: relay.NewClassifier(kamino.PROGRAM_ID, relay.KaminoDirectory()),
	}
}

// BuildDeposit assembles a deposit of amount from the user's token account
// into klend through the vault. The token leg transfers into the pool before
// the first relayed group.
func (a *Assembler) BuildDeposit(ctx context.Context, user ed25519.PublicKey, amount uint64, action *KaminoAction) (*Plan, error) {
	return a.build(ctx, vault_program.RelayKindDeposit, user, amount, action)
}

// BuildWithdraw assembles a withdrawal of amount from klend back to the
// user's token account through the vault. The token leg transfers out of the
// pool after the last relayed group.
func (a *Assembler) BuildWithdraw(ctx context.Context, user ed25519.PublicKey, amount uint64, action *KaminoAction) (*Plan, error) {
	return a.build(ctx, vault_program.RelayKindWithdraw, user, amount, action)
}

func (a *Assembler) build(ctx context.Context, kind vault_program.RelayKind, user ed25519.PublicKey, amount uint64, action *KaminoAction) (*Plan, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "build")
	defer tracer.End()

	tracer.AddAttribute("kind", kind.String())
	tracer.AddKeyAttribute("user", user)

	id := uuid.New()

	log := a.log.WithFields(logrus.Fields{
		"method":  "build",
		"plan_id": id.String(),
		"kind":    kind.String(),
		"user":    base58.Encode(user),
		"amount":  amount,
	})

	plan, err := a.assemble(ctx, id, kind, user, amount, action)
	if err != nil {
		log.WithError(err).Warn("failure assembling plan")
		tracer.OnError(err)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"steps":        len(plan.Steps),
		"transactions": len(plan.Transactions),
		"pre":          len(plan.Pre),
	}).Debug("assembled plan")

	metrics.RecordEvent(ctx, planBuiltEventName, map[string]interface{}{
		"plan_id":      id.String(),
		"kind":         kind.String(),
		"steps":        len(plan.Steps),
		"transactions": len(plan.Transactions),
	})

	return plan, nil
}

func (a *Assembler) assemble(ctx context.Context, id uuid.UUID, kind vault_program.RelayKind, user ed25519.PublicKey, amount uint64, action *KaminoAction) (*Plan, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if len(user) != ed25519.PublicKeySize {
		return nil, errors.New("invalid user")
	}

	userTokenAccount, err := a.vault.UserTokenAccount(user)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving user token account")
	}

	remapper := relay.NewRemapper(user, a.vault.Address)

	plan := &Plan{
		ID:     id,
		Kind:   kind,
		User:   user,
		Amount: amount,
	}
	for _, ixn := range action.PreTxnIxs {
		plan.Pre = append(plan.Pre, remapper.RemapInstruction(ixn))
	}

	var ixns []solana.Instruction
	for _, section := range [][]solana.Instruction{action.SetupIxs, action.LendingIxs, action.CleanupIxs} {
		for _, ixn := range section {
			// Every transaction gets its own compute budget once chunked
			if compute_budget.IsComputeBudgetInstruction(ixn) {
				continue
			}

			if a.conf.stripLookupTableInstructions.Get(ctx) && address_lookup_table.IsLookupTableInstruction(ixn) {
				plan.Pre = append(plan.Pre, remapper.RemapInstruction(ixn))
				continue
			}
			ixns = append(ixns, ixn)
		}
	}

	classified, err := a.classifier.ClassifyAll(ixns)
	if err != nil {
		return nil, err
	}

	remapped := remapper.RemapAll(classified)
	groups := relay.Partition(remapped)

	legGroup := -1
	for i, group := range groups {
		if group.Classification != relay.ClassificationRelayed {
			continue
		}
		if legGroup < 0 || kind == vault_program.RelayKindWithdraw {
			legGroup = i
		}
	}
	if legGroup < 0 {
		return nil, ErrNothingToRelay
	}

	leg := &TokenLeg{
		Amount:   amount,
		External: userTokenAccount,
		Pool:     a.vault.Pool,
	}
	switch kind {
	case vault_program.RelayKindDeposit:
		leg.Direction = DirectionIn
	case vault_program.RelayKindWithdraw:
		leg.Direction = DirectionOut
	default:
		return nil, errors.Errorf("unsupported relay kind %s", kind)
	}

	passthroughComputeUnits := a.conf.computeUnitsPerPassthrough.Get(ctx)
	relayedComputeUnits := a.conf.computeUnitsPerRelayedCall.Get(ctx)

	var units []relay.Unit
	for i, group := range groups {
		if group.Classification != relay.ClassificationRelayed {
			// A group never spans transactions, and a trailing refresh stays
			// with the outer call it refreshes for.
			for j, member := range group.Members {
				plan.Steps = append(plan.Steps, Step{
					Kind:        StepKindPassthrough,
					Instruction: member.Instruction.Clone(),
				})
				units = append(units, relay.Unit{
					Instructions:   []solana.Instruction{member.Instruction},
					ComputeUnits:   passthroughComputeUnits,
					AdjacentToNext: j < len(group.Members)-1 || member.IsRefresh(),
				})
			}
			continue
		}

		env, err := relay.Encode(group)
		if err != nil {
			return nil, errors.Wrapf(err, "error encoding group %d", i)
		}

		var legAmount uint64
		if i == legGroup {
			legAmount = amount
		}

		outer := a.newOuterInstruction(kind, user, userTokenAccount, env, legAmount)

		unit := relay.Unit{
			ComputeUnits: relayedComputeUnits * uint64(len(group.Members)),
		}

		if i == legGroup {
			creates, err := a.newTokenAccountInstructions(kind, user)
			if err != nil {
				return nil, err
			}

			// Token accounts are created ahead of any passthrough run bound
			// to the outer call, so the run stays intact and refreshes stay
			// immediately adjacent to it.
			createUnit := relay.Unit{AdjacentToNext: true}
			var createSteps []Step
			for _, create := range creates {
				createSteps = append(createSteps, Step{
					Kind:        StepKindCreateTokenAccount,
					Instruction: create.Clone(),
				})
				createUnit.Instructions = append(createUnit.Instructions, create)
				createUnit.ComputeUnits += passthroughComputeUnits
			}

			adjacent := 0
			for adjacent < len(units) && units[len(units)-1-adjacent].AdjacentToNext {
				adjacent++
			}
			units = insertAt(units, len(units)-adjacent, createUnit)
			for j, step := range createSteps {
				plan.Steps = insertAt(plan.Steps, len(plan.Steps)-adjacent+j, step)
			}
		}

		relayStep := Step{
			Kind:        StepKindRelay,
			Instruction: outer.Clone(),
			Envelope:    env,
		}
		for _, member := range group.Members {
			relayStep.Operations = append(relayStep.Operations, member.Operation.Name)
		}

		legStep := Step{
			Kind:     StepKindTokenLeg,
			TokenLeg: leg,
		}

		switch {
		case i != legGroup:
			plan.Steps = append(plan.Steps, relayStep)
		case leg.Direction == DirectionIn:
			plan.Steps = append(plan.Steps, legStep, relayStep)
		default:
			plan.Steps = append(plan.Steps, relayStep, legStep)
		}

		unit.Instructions = append(unit.Instructions, outer)
		units = append(units, unit)
	}

	overhead := []solana.Instruction{
		compute_budget.SetComputeUnitLimit(compute_budget.MaxComputeUnitLimit),
		compute_budget.SetComputeUnitPrice(a.conf.computeUnitPrice.Get(ctx)),
	}
	chunks, err := relay.ChunkUnits(user, overhead, units, a.limits(ctx))
	if err != nil {
		return nil, err
	}

	for _, chunk := range chunks {
		computeUnits := chunk.ComputeUnits
		if computeUnits > compute_budget.MaxComputeUnitLimit {
			computeUnits = compute_budget.MaxComputeUnitLimit
		}

		txn := []solana.Instruction{
			compute_budget.SetComputeUnitLimit(uint32(computeUnits)),
			compute_budget.SetComputeUnitPrice(a.conf.computeUnitPrice.Get(ctx)),
		}
		txn = append(txn, chunk.Instructions...)
		plan.Transactions = append(plan.Transactions, txn)
	}

	return plan, nil
}

func (a *Assembler) newOuterInstruction(kind vault_program.RelayKind, user, userTokenAccount ed25519.PublicKey, env *relay.Envelope, amount uint64) solana.Instruction {
	accounts := &vault_program.RelayInstructionAccounts{
		User:               user,
		UserTokenAccount:   userTokenAccount,
		Escrow:             a.vault.Address,
		EscrowTokenAccount: a.vault.Pool,
		TokenMint:          a.vault.Mint,
		RemainingAccounts:  env.Accounts,
	}
	args := &vault_program.RelayInstructionArgs{
		IxDatas:          env.Payloads,
		IxAccountsCounts: env.AccountCounts,
		Amount:           amount,
	}

	if kind == vault_program.RelayKindWithdraw {
		return vault_program.NewWithdrawInstruction(accounts, args)
	}
	return vault_program.NewDepositInstruction(accounts, args)
}

// newTokenAccountInstructions creates the token accounts the token leg moves
// funds between if they don't exist yet. The pool is always created if
// absent, and withdrawals also create the user's token account.
func (a *Assembler) newTokenAccountInstructions(kind vault_program.RelayKind, user ed25519.PublicKey) ([]solana.Instruction, error) {
	createPool, _, err := token.CreateAssociatedTokenAccountIdempotent(user, a.vault.Address, a.vault.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "error creating pool account instruction")
	}
	res := []solana.Instruction{createPool}

	if kind == vault_program.RelayKindWithdraw {
		createUser, _, err := token.CreateAssociatedTokenAccountIdempotent(user, user, a.vault.Mint)
		if err != nil {
			return nil, errors.Wrap(err, "error creating user token account instruction")
		}
		res = append(res, createUser)
	}

	return res, nil
}

func (a *Assembler) limits(ctx context.Context) relay.Limits {
	return relay.Limits{
		MaxAccounts:        int(a.conf.maxAccounts.Get(ctx)),
		MaxTransactionSize: int(a.conf.maxTransactionSize.Get(ctx)),
		MaxComputeUnits:    a.conf.maxComputeUnits.Get(ctx),
	}
}

func insertAt[T any](items []T, i int, item T) []T {
	items = append(items, item)
	copy(items[i+1:], items[i:])
	items[i] = item
	return items
}
