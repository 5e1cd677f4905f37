package memory

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/solana"
	"github.com/code-payments/vault-relay/pkg/vault"
	"github.com/code-payments/vault-relay/pkg/vault/executor"
)

// ErrTransactionInProgress is returned when setting up state while a
// transaction is open, since committing it would discard the change.
var ErrTransactionInProgress = errors.New("transaction in progress")

// Handler applies the effects of an instruction for a program. It's only
// invoked once the instruction's signers have been verified.
type Handler func(ctx context.Context, ledger Ledger, ixn solana.Instruction) error

// Ledger is the token state visible to a Handler within a transaction.
type Ledger interface {
	CreateTokenAccount(account, owner, mint ed25519.PublicKey) error

	Balance(account ed25519.PublicKey) (uint64, error)

	// Transfer moves amount from source to destination. The authority must
	// own source, and is assumed to have been authorized by the caller.
	Transfer(source, destination, authority ed25519.PublicKey, amount uint64) error
}

type EventKind uint8

const (
	EventKindUnknown EventKind = iota
	EventKindCreateTokenAccount
	EventKindTransfer
	EventKindInvoke
)

func (k EventKind) String() string {
	switch k {
	case EventKindCreateTokenAccount:
		return "create_token_account"
	case EventKindTransfer:
		return "transfer"
	case EventKindInvoke:
		return "invoke"
	}
	return "unknown"
}

// Event is a committed effect, in the order it was applied.
type Event struct {
	Kind EventKind

	// Set for invocations
	Program ed25519.PublicKey
	Data    []byte

	// Set for token account creations and transfers
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Amount      uint64
}

type tokenAccount struct {
	owner  ed25519.PublicKey
	mint   ed25519.PublicKey
	amount uint64
}

type state struct {
	accounts map[string]*tokenAccount
	events   []Event
}

func (s *state) clone() *state {
	cloned := &state{
		accounts: make(map[string]*tokenAccount, len(s.accounts)),
		events:   make([]Event, len(s.events)),
	}
	for k, v := range s.accounts {
		copied := *v
		cloned.accounts[k] = &copied
	}
	copy(cloned.events, s.events)
	return cloned
}

// Runtime is an in memory executor.Runtime with a single token ledger.
// Transactions are serialized: Begin blocks until the previous transaction
// has been committed or rolled back, or the context is done.
type Runtime struct {
	txnSlot chan struct{}

	mu       sync.Mutex
	state    *state
	handlers map[string]Handler
	inTxn    bool
}

// New returns a new in memory executor.Runtime
func New() *Runtime {
	return &Runtime{
		txnSlot: make(chan struct{}, 1),
		state: &state{
			accounts: make(map[string]*tokenAccount),
		},
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler sets the handler invoked for instructions of program
func (r *Runtime) RegisterHandler(program ed25519.PublicKey, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[string(program)] = handler
}

// CreateTokenAccount creates a funded token account outside of any
// transaction. It isn't recorded in the history, and fails with
// ErrTransactionInProgress while a transaction is open.
func (r *Runtime) CreateTokenAccount(account, owner, mint ed25519.PublicKey, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inTxn {
		return ErrTransactionInProgress
	}

	if _, ok := r.state.accounts[string(account)]; ok {
		return executor.ErrTokenAccountExists
	}

	r.state.accounts[string(account)] = &tokenAccount{
		owner:  cloneKey(owner),
		mint:   cloneKey(mint),
		amount: amount,
	}
	return nil
}

// Balance returns the committed balance of a token account
func (r *Runtime) Balance(account ed25519.PublicKey) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return (&ledger{state: r.state}).Balance(account)
}

// History returns every committed event
func (r *Runtime) History() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]Event, len(r.state.events))
	copy(res, r.state.events)
	return res
}

// Begin implements executor.Runtime.Begin
func (r *Runtime) Begin(ctx context.Context, program ed25519.PublicKey, signers ...ed25519.PublicKey) (executor.Transaction, error) {
	select {
	case r.txnSlot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.inTxn = true

	txn := &transaction{
		runtime: r,
		program: program,
		signers: make(map[string]struct{}),
		working: r.state.clone(),
	}
	for _, signer := range signers {
		txn.signers[string(signer)] = struct{}{}
	}
	return txn, nil
}

func (r *Runtime) release() {
	r.mu.Lock()
	r.inTxn = false
	r.mu.Unlock()

	<-r.txnSlot
}

func (r *Runtime) getHandler(program ed25519.PublicKey) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handler, ok := r.handlers[string(program)]
	return handler, ok
}

func (r *Runtime) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = &state{
		accounts: make(map[string]*tokenAccount),
	}
	r.handlers = make(map[string]Handler)
}

type transaction struct {
	runtime *Runtime
	program ed25519.PublicKey
	signers map[string]struct{}
	working *state
	closed  bool
}

// CreateTokenAccountIfAbsent implements executor.Transaction.CreateTokenAccountIfAbsent
func (t *transaction) CreateTokenAccountIfAbsent(_ context.Context, account, owner, mint ed25519.PublicKey) error {
	if t.closed {
		return executor.ErrTransactionClosed
	}

	existing, ok := t.working.accounts[string(account)]
	if !ok {
		return t.ledger().CreateTokenAccount(account, owner, mint)
	}

	if !bytes.Equal(existing.mint, mint) {
		return executor.ErrMintMismatch
	}
	if !bytes.Equal(existing.owner, owner) {
		return executor.ErrInvalidAuthority
	}
	return nil
}

// Transfer implements executor.Transaction.Transfer
func (t *transaction) Transfer(_ context.Context, source, destination, authority ed25519.PublicKey, amount uint64, signerSeeds [][]byte) error {
	if t.closed {
		return executor.ErrTransactionClosed
	}

	if err := t.verifySigner(authority, signerSeeds); err != nil {
		return err
	}
	return t.ledger().Transfer(source, destination, authority, amount)
}

// InvokeSigned implements executor.Transaction.InvokeSigned
func (t *transaction) InvokeSigned(ctx context.Context, ixn solana.Instruction, signerSeeds [][]byte) error {
	if t.closed {
		return executor.ErrTransactionClosed
	}

	for _, account := range ixn.Accounts {
		if !account.IsSigner {
			continue
		}
		if err := t.verifySigner(account.PublicKey, signerSeeds); err != nil {
			return err
		}
	}

	handler, ok := t.runtime.getHandler(ixn.Program)
	if !ok {
		return errors.Wrap(executor.ErrUnknownProgram, base58.Encode(ixn.Program))
	}

	if err := handler(ctx, t.ledger(), ixn); err != nil {
		return err
	}

	t.working.events = append(t.working.events, Event{
		Kind:    EventKindInvoke,
		Program: ixn.Program,
		Data:    append([]byte(nil), ixn.Data...),
	})
	return nil
}

// Commit implements executor.Transaction.Commit
func (t *transaction) Commit(_ context.Context) error {
	if t.closed {
		return executor.ErrTransactionClosed
	}
	t.closed = true

	t.runtime.mu.Lock()
	t.runtime.state = t.working
	t.runtime.mu.Unlock()

	t.runtime.release()
	return nil
}

// Rollback implements executor.Transaction.Rollback
func (t *transaction) Rollback(_ context.Context) error {
	if t.closed {
		return executor.ErrTransactionClosed
	}
	t.closed = true
	t.working = nil

	t.runtime.release()
	return nil
}

func (t *transaction) verifySigner(account ed25519.PublicKey, signerSeeds [][]byte) error {
	if _, ok := t.signers[string(account)]; ok {
		return nil
	}

	if len(signerSeeds) > 0 {
		derived, err := solana.CreateProgramAddress(t.program, signerSeeds...)
		if err == nil && bytes.Equal(derived, account) {
			return nil
		}
	}

	return errors.Wrap(executor.ErrMissingSignature, base58.Encode(account))
}

func (t *transaction) ledger() *ledger {
	return &ledger{state: t.working}
}

type ledger struct {
	state *state
}

// CreateTokenAccount implements Ledger.CreateTokenAccount
func (l *ledger) CreateTokenAccount(account, owner, mint ed25519.PublicKey) error {
	if _, ok := l.state.accounts[string(account)]; ok {
		return executor.ErrTokenAccountExists
	}

	l.state.accounts[string(account)] = &tokenAccount{
		owner: cloneKey(owner),
		mint:  cloneKey(mint),
	}
	l.state.events = append(l.state.events, Event{
		Kind:        EventKindCreateTokenAccount,
		Destination: cloneKey(account),
	})
	return nil
}

// Balance implements Ledger.Balance
func (l *ledger) Balance(account ed25519.PublicKey) (uint64, error) {
	existing, ok := l.state.accounts[string(account)]
	if !ok {
		return 0, errors.Wrap(executor.ErrTokenAccountNotFound, base58.Encode(account))
	}
	return existing.amount, nil
}

// Transfer implements Ledger.Transfer
func (l *ledger) Transfer(source, destination, authority ed25519.PublicKey, amount uint64) error {
	from, ok := l.state.accounts[string(source)]
	if !ok {
		return errors.Wrap(executor.ErrTokenAccountNotFound, base58.Encode(source))
	}
	to, ok := l.state.accounts[string(destination)]
	if !ok {
		return errors.Wrap(executor.ErrTokenAccountNotFound, base58.Encode(destination))
	}

	if !bytes.Equal(from.owner, authority) {
		return executor.ErrInvalidAuthority
	}
	if !bytes.Equal(from.mint, to.mint) {
		return executor.ErrMintMismatch
	}
	if from.amount < amount {
		return vault.ErrInsufficientFunds
	}

	from.amount -= amount
	to.amount += amount

	l.state.events = append(l.state.events, Event{
		Kind:        EventKindTransfer,
		Source:      cloneKey(source),
		Destination: cloneKey(destination),
		Amount:      amount,
	})
	return nil
}

func cloneKey(key ed25519.PublicKey) ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), key...)
}
