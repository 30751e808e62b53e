// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake manages stake pools, validator set membership and the epoch
// transition that pays rewards and commits the next active set.
package stake

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/state"
)

var logger = log.WithContext("pkg", "stake")

// Clock is the time source of the staking engine.
type Clock interface {
	IsGenesis() (bool, error)
	NowSeconds() (uint64, error)
}

// Stake implements the validator lifecycle.
type Stake struct {
	state    *state.State
	coins    *coin.Ledger
	clock    Clock
	verifier pop.Verifier
}

// New create a new instance.
func New(st *state.State, coins *coin.Ledger, clock Clock, verifier pop.Verifier) *Stake {
	return &Stake{
		state:    st,
		coins:    coins,
		clock:    clock,
		verifier: verifier,
	}
}

// now returns the ledger time in seconds, zero during genesis.
func (s *Stake) now() (uint64, error) {
	genesis, err := s.clock.IsGenesis()
	if err != nil {
		return 0, err
	}
	if genesis {
		return 0, nil
	}
	return s.clock.NowSeconds()
}

func assertCoreResource(account chain.Address) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	return nil
}

func validateRequiredStake(minimum, maximum uint64) error {
	if minimum > maximum || maximum == 0 {
		return throw.InvalidArgument(EINVALID_STAKE_RANGE, "invalid stake range [%d, %d]", minimum, maximum)
	}
	return nil
}

func validateRewardsRate(rate, denominator uint64) error {
	if denominator == 0 || rate > denominator {
		return throw.InvalidArgument(EINVALID_REWARDS_RATE, "invalid rewards rate %d/%d", rate, denominator)
	}
	return nil
}

//
// Configuration
//

// InitializeValidatorSet publishes the staking configuration and an empty validator set.
func (s *Stake) InitializeValidatorSet(account chain.Address, cfg ValidatorSetConfiguration) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	exists, err := configs.Exists(s.state, chain.CoreResourceAddress)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EALREADY_REGISTERED, "validator set already initialized")
	}
	if err := validateRequiredStake(cfg.MinimumStake, cfg.MaximumStake); err != nil {
		return err
	}
	if err := validateRewardsRate(cfg.RewardsRate, cfg.RewardsRateDenominator); err != nil {
		return err
	}
	if cfg.RecurringLockupDurationSecs == 0 {
		return throw.InvalidArgument(EINVALID_LOCKUP_VALUE, "recurring lockup duration must be positive")
	}
	if err := configs.Put(s.state, chain.CoreResourceAddress, &cfg); err != nil {
		return err
	}
	if err := validatorSets.Put(s.state, chain.CoreResourceAddress, &ValidatorSet{}); err != nil {
		return err
	}
	logger.Debug("validator set initialized",
		"minStake", cfg.MinimumStake,
		"maxStake", cfg.MaximumStake,
		"lockup", cfg.RecurringLockupDurationSecs,
	)
	return performances.Put(s.state, chain.CoreResourceAddress, &ValidatorPerformance{})
}

// Config returns the staking configuration.
func (s *Stake) Config() (*ValidatorSetConfiguration, error) {
	cfg, exist, err := configs.Get(s.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ENOT_INITIALIZED, "validator set not initialized")
	}
	return cfg, nil
}

func (s *Stake) updateConfig(account chain.Address, update func(cfg *ValidatorSetConfiguration) error) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	if err := update(cfg); err != nil {
		return err
	}
	return configs.Put(s.state, chain.CoreResourceAddress, cfg)
}

// UpdateRequiredStake changes the stake bounds of validators.
func (s *Stake) UpdateRequiredStake(account chain.Address, minimum, maximum uint64) error {
	return s.updateConfig(account, func(cfg *ValidatorSetConfiguration) error {
		if err := validateRequiredStake(minimum, maximum); err != nil {
			return err
		}
		cfg.MinimumStake, cfg.MaximumStake = minimum, maximum
		return nil
	})
}

// UpdateRecurringLockupDuration changes the lockup applied on each renewal.
func (s *Stake) UpdateRecurringLockupDuration(account chain.Address, secs uint64) error {
	return s.updateConfig(account, func(cfg *ValidatorSetConfiguration) error {
		if secs == 0 {
			return throw.InvalidArgument(EINVALID_LOCKUP_VALUE, "recurring lockup duration must be positive")
		}
		cfg.RecurringLockupDurationSecs = secs
		return nil
	})
}

// UpdateRewardsRate changes the per-epoch reward rate.
func (s *Stake) UpdateRewardsRate(account chain.Address, rate, denominator uint64) error {
	return s.updateConfig(account, func(cfg *ValidatorSetConfiguration) error {
		if err := validateRewardsRate(rate, denominator); err != nil {
			return err
		}
		cfg.RewardsRate, cfg.RewardsRateDenominator = rate, denominator
		return nil
	})
}

// SetAllowValidatorSetChange toggles joining and leaving after genesis.
func (s *Stake) SetAllowValidatorSetChange(account chain.Address, allow bool) error {
	return s.updateConfig(account, func(cfg *ValidatorSetConfiguration) error {
		cfg.AllowValidatorSetChange = allow
		return nil
	})
}

// StoreMintCapability hands the reward mint capability to the staking engine.
func (s *Stake) StoreMintCapability(account chain.Address, capability *coin.MintCapability) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	return s.coins.StoreMintCapability(chain.CoreResourceAddress, capability)
}

//
// Storage helpers
//

func (s *Stake) pool(addr chain.Address) (*StakePool, error) {
	p, exist, err := pools.Get(s.state, addr)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ESTAKE_POOL_NOT_FOUND, "no stake pool at %s", addr.ShortString())
	}
	return p, nil
}

func (s *Stake) validatorConfig(addr chain.Address) (*ValidatorConfig, error) {
	c, exist, err := validatorCfgs.Get(s.state, addr)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(EVALIDATOR_CONFIG, "no validator config at %s", addr.ShortString())
	}
	return c, nil
}

func (s *Stake) validatorSet() (*ValidatorSet, error) {
	set, exist, err := validatorSets.Get(s.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ENOT_INITIALIZED, "validator set not initialized")
	}
	return set, nil
}

func (s *Stake) performance() (*ValidatorPerformance, error) {
	perf, exist, err := performances.Get(s.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ENOT_INITIALIZED, "validator set not initialized")
	}
	return perf, nil
}

func (s *Stake) lockupFrom(now uint64, cfg *ValidatorSetConfiguration) (uint64, error) {
	until, overflow := math.SafeAdd(now, cfg.RecurringLockupDurationSecs)
	if overflow {
		return 0, throw.OutOfRange(EOVERFLOW, "lockup overflows")
	}
	return until, nil
}
