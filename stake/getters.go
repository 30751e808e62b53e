// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/econia-labs/econia-sub003/chain"
)

//
// Getters - no state change
//

// IsRegistered reports whether a stake pool exists at addr.
func (s *Stake) IsRegistered(addr chain.Address) (bool, error) {
	return pools.Exists(s.state, addr)
}

// GetValidatorState returns the membership state of the pool.
func (s *Stake) GetValidatorState(addr chain.Address) (Status, error) {
	set, err := s.validatorSet()
	if err != nil {
		return 0, err
	}
	switch {
	case findValidator(set.PendingActive, addr) >= 0:
		return StatusPendingActive, nil
	case findValidator(set.ActiveValidators, addr) >= 0:
		return StatusActive, nil
	case findValidator(set.PendingInactive, addr) >= 0:
		return StatusPendingInactive, nil
	default:
		return StatusInactive, nil
	}
}

// IsCurrentEpochValidator reports whether the pool takes part in the current epoch.
func (s *Stake) IsCurrentEpochValidator(addr chain.Address) (bool, error) {
	status, err := s.GetValidatorState(addr)
	if err != nil {
		return false, err
	}
	return status == StatusActive || status == StatusPendingInactive, nil
}

// Balances of the four buckets of a pool.
type Balances struct {
	Active          uint64 `json:"active"`
	Inactive        uint64 `json:"inactive"`
	PendingActive   uint64 `json:"pendingActive"`
	PendingInactive uint64 `json:"pendingInactive"`
}

// GetStake returns the bucket balances of the pool.
func (s *Stake) GetStake(addr chain.Address) (Balances, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return Balances{}, err
	}
	return Balances{
		Active:          pool.Active.Value(),
		Inactive:        pool.Inactive.Value(),
		PendingActive:   pool.PendingActive.Value(),
		PendingInactive: pool.PendingInactive.Value(),
	}, nil
}

// GetPool returns the stored pool.
func (s *Stake) GetPool(addr chain.Address) (*StakePool, error) {
	return s.pool(addr)
}

// GetLockupSecs returns when the lockup of the pool expires.
func (s *Stake) GetLockupSecs(addr chain.Address) (uint64, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return 0, err
	}
	return pool.LockedUntilSecs, nil
}

// GetRemainingLockupSecs returns how long the pool stays locked, zero once expired.
func (s *Stake) GetRemainingLockupSecs(addr chain.Address) (uint64, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return 0, err
	}
	now, err := s.now()
	if err != nil {
		return 0, err
	}
	if pool.LockedUntilSecs <= now {
		return 0, nil
	}
	return pool.LockedUntilSecs - now, nil
}

func (s *Stake) GetOperator(addr chain.Address) (chain.Address, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return chain.Address{}, err
	}
	return pool.OperatorAddress, nil
}

func (s *Stake) GetDelegatedVoter(addr chain.Address) (chain.Address, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return chain.Address{}, err
	}
	return pool.DelegatedVoter, nil
}

func (s *Stake) IsDelegatedVoter(addr, voter chain.Address) (bool, error) {
	delegated, err := s.GetDelegatedVoter(addr)
	if err != nil {
		return false, err
	}
	return delegated == voter, nil
}

// GetCurrentEpochVotingPower returns the stake counted for consensus in the
// current epoch, zero when the pool is not a current validator.
func (s *Stake) GetCurrentEpochVotingPower(addr chain.Address) (uint64, error) {
	current, err := s.IsCurrentEpochValidator(addr)
	if err != nil || !current {
		return 0, err
	}
	pool, err := s.pool(addr)
	if err != nil {
		return 0, err
	}
	return pool.Active.Value() + pool.PendingInactive.Value(), nil
}

func (s *Stake) GetValidatorConfig(addr chain.Address) (*ValidatorConfig, error) {
	return s.validatorConfig(addr)
}

// ValidatorSet returns the stored validator set.
func (s *Stake) ValidatorSet() (*ValidatorSet, error) {
	return s.validatorSet()
}

// Performance returns the performance counters of the current epoch.
func (s *Stake) Performance() (*ValidatorPerformance, error) {
	return s.performance()
}
