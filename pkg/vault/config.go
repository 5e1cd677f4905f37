package vault

import (
	"github.com/code-payments/vault-relay/pkg/config"
	"github.com/code-payments/vault-relay/pkg/config/env"
	"github.com/code-payments/vault-relay/pkg/config/memory"
	"github.com/code-payments/vault-relay/pkg/config/wrapper"
	"github.com/code-payments/vault-relay/pkg/solana"
	compute_budget "github.com/code-payments/vault-relay/pkg/solana/computebudget"
)

const (
	envConfigPrefix = "VAULT_RELAY_"

	MaxTransactionSizeConfigEnvName = envConfigPrefix + "MAX_TRANSACTION_SIZE"
	defaultMaxTransactionSize       = solana.MaxTransactionSize

	MaxAccountsConfigEnvName = envConfigPrefix + "MAX_ACCOUNTS"
	defaultMaxAccounts       = solana.MaxAccountLocks

	MaxComputeUnitsConfigEnvName = envConfigPrefix + "MAX_COMPUTE_UNITS"
	defaultMaxComputeUnits       = compute_budget.MaxComputeUnitLimit

	ComputeUnitsPerRelayedCallConfigEnvName = envConfigPrefix + "COMPUTE_UNITS_PER_RELAYED_CALL"
	defaultComputeUnitsPerRelayedCall       = 150_000

	ComputeUnitsPerPassthroughConfigEnvName = envConfigPrefix + "COMPUTE_UNITS_PER_PASSTHROUGH"
	defaultComputeUnitsPerPassthrough       = 40_000

	ComputeUnitPriceConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_PRICE"
	defaultComputeUnitPrice       = 1_000

	StripLookupTableInstructionsConfigEnvName = envConfigPrefix + "STRIP_LOOKUP_TABLE_INSTRUCTIONS"
	defaultStripLookupTableInstructions       = true
)

type conf struct {
	maxTransactionSize           config.Uint64
	maxAccounts                  config.Uint64
	maxComputeUnits              config.Uint64
	computeUnitsPerRelayedCall   config.Uint64
	computeUnitsPerPassthrough   config.Uint64
	computeUnitPrice             config.Uint64
	stripLookupTableInstructions config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			maxTransactionSize:           env.NewUint64Config(MaxTransactionSizeConfigEnvName, defaultMaxTransactionSize),
			maxAccounts:                  env.NewUint64Config(MaxAccountsConfigEnvName, defaultMaxAccounts),
			maxComputeUnits:              env.NewUint64Config(MaxComputeUnitsConfigEnvName, defaultMaxComputeUnits),
			computeUnitsPerRelayedCall:   env.NewUint64Config(ComputeUnitsPerRelayedCallConfigEnvName, defaultComputeUnitsPerRelayedCall),
			computeUnitsPerPassthrough:   env.NewUint64Config(ComputeUnitsPerPassthroughConfigEnvName, defaultComputeUnitsPerPassthrough),
			computeUnitPrice:             env.NewUint64Config(ComputeUnitPriceConfigEnvName, defaultComputeUnitPrice),
			stripLookupTableInstructions: env.NewBoolConfig(StripLookupTableInstructionsConfigEnvName, defaultStripLookupTableInstructions),
		}
	}
}

type testOverrides struct {
	maxTransactionSize          uint64
	maxAccounts                 uint64
	maxComputeUnits             uint64
	computeUnitsPerRelayedCall  uint64
	keepLookupTableInstructions bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		maxTransactionSize := uint64(defaultMaxTransactionSize)
		if overrides.maxTransactionSize > 0 {
			maxTransactionSize = overrides.maxTransactionSize
		}

		maxAccounts := uint64(defaultMaxAccounts)
		if overrides.maxAccounts > 0 {
			maxAccounts = overrides.maxAccounts
		}

		maxComputeUnits := uint64(defaultMaxComputeUnits)
		if overrides.maxComputeUnits > 0 {
			maxComputeUnits = overrides.maxComputeUnits
		}

		computeUnitsPerRelayedCall := uint64(defaultComputeUnitsPerRelayedCall)
		if overrides.computeUnitsPerRelayedCall > 0 {
			computeUnitsPerRelayedCall = overrides.computeUnitsPerRelayedCall
		}

		return &conf{
			maxTransactionSize:           wrapper.NewUint64Config(memory.NewConfig(maxTransactionSize), defaultMaxTransactionSize),
			maxAccounts:                  wrapper.NewUint64Config(memory.NewConfig(maxAccounts), defaultMaxAccounts),
			maxComputeUnits:              wrapper.NewUint64Config(memory.NewConfig(maxComputeUnits), defaultMaxComputeUnits),
			computeUnitsPerRelayedCall:   wrapper.NewUint64Config(memory.NewConfig(computeUnitsPerRelayedCall), defaultComputeUnitsPerRelayedCall),
			computeUnitsPerPassthrough:   wrapper.NewUint64Config(memory.NewConfig(uint64(defaultComputeUnitsPerPassthrough)), defaultComputeUnitsPerPassthrough),
			computeUnitPrice:             wrapper.NewUint64Config(memory.NewConfig(uint64(defaultComputeUnitPrice)), defaultComputeUnitPrice),
			stripLookupTableInstructions: wrapper.NewBoolConfig(memory.NewConfig(!overrides.keepLookupTableInstructions), defaultStripLookupTableInstructions),
		}
	}
}
