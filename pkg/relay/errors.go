package relay

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownInstruction is returned when an instruction addressed to the
	// relayed program has a discriminator that isn't in the directory.
	ErrUnknownInstruction = errors.New("unknown instruction")

	// ErrGroupTooLarge is returned when an instruction references more
	// accounts than a single account count byte can describe.
	ErrGroupTooLarge = errors.New("instruction has too many accounts to relay")

	// ErrAccountCountMismatch is returned when an envelope's account counts
	// don't describe its payloads and account list.
	ErrAccountCountMismatch = errors.New("account counts do not match envelope")

	// ErrNotRelayed is returned when encoding a group that passes through.
	ErrNotRelayed = errors.New("group is not relayed")

	// ErrExceedsCapacity is returned when a run of units that can't be split
	// doesn't fit within a single transaction.
	ErrExceedsCapacity = errors.New("instructions exceed transaction capacity")
)
