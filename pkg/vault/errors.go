package vault

import (
	"github.com/pkg/errors"
)

var (
	// ErrInsufficientFunds is returned when a token leg can't move the
	// requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNothingToRelay is returned when a retail operation has no
	// instruction that needs the vault's authority, so there's no outer call
	// to carry the token leg.
	ErrNothingToRelay = errors.New("no instructions to relay")

	ErrInvalidVault = errors.New("invalid vault")
)
