// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/events"
)

// RegisterValidatorCandidate creates the stake pool of owner, its validator
// config and the owner capability, kept by owner.
func (s *Stake) RegisterValidatorCandidate(owner chain.Address, pubkey, proof, networkAddrs, fullnodeAddrs []byte) error {
	exists, err := pools.Exists(s.state, owner)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EALREADY_REGISTERED, "%s already registered", owner.ShortString())
	}
	if !s.verifier.VerifyProofOfPossession(pubkey, proof) {
		return throw.InvalidArgument(EINVALID_PUBLIC_KEY, "invalid proof of possession")
	}
	if err := s.issueOwnerCap(owner, owner); err != nil {
		return err
	}

	var evs StakePoolEvents
	for _, h := range []*events.Handle{
		&evs.RegisterValidatorCandidate,
		&evs.SetOperator,
		&evs.AddStake,
		&evs.RotateConsensusKey,
		&evs.UpdateNetworkAndFullnodeAddresses,
		&evs.IncreaseLockup,
		&evs.JoinValidatorSet,
		&evs.DistributeRewards,
		&evs.UnlockStake,
		&evs.WithdrawStake,
		&evs.LeaveValidatorSet,
	} {
		if *h, err = events.NewHandle(s.state, owner); err != nil {
			return err
		}
	}
	if err := poolEvents.Put(s.state, owner, &evs); err != nil {
		return err
	}
	if err := pools.Put(s.state, owner, &StakePool{
		OperatorAddress: owner,
		DelegatedVoter:  owner,
	}); err != nil {
		return err
	}
	if err := validatorCfgs.Put(s.state, owner, &ValidatorConfig{
		ConsensusPubkey:   pubkey,
		NetworkAddresses:  networkAddrs,
		FullnodeAddresses: fullnodeAddrs,
	}); err != nil {
		return err
	}
	logger.Debug("validator candidate registered", "pool", owner)
	return s.emit(owner, func(e *StakePoolEvents) *events.Handle { return &e.RegisterValidatorCandidate },
		"RegisterValidatorCandidateEvent", &RegisterValidatorCandidateEvent{PoolAddress: owner})
}

// AddStake moves amount from the ledger balance of owner into the pool it controls.
func (s *Stake) AddStake(owner chain.Address, amount uint64) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	if err := s.checkStakeCapacity(pool, amount); err != nil {
		return err
	}
	coins, err := s.coins.Withdraw(owner, amount)
	if err != nil {
		return err
	}
	return s.addStake(pool, &coins)
}

// AddStakeWithCap adds coins to pool.
func (s *Stake) AddStakeWithCap(pool chain.Address, capability *OwnerCapability, coins *coin.Coin) error {
	if err := s.checkCap(capability, pool); err != nil {
		return err
	}
	return s.addStake(pool, coins)
}

// checkStakeCapacity fails unless amount can be added to the pool without
// exceeding the maximum stake.
func (s *Stake) checkStakeCapacity(addr chain.Address, amount uint64) error {
	if amount == 0 {
		return throw.InvalidArgument(EINVALID_STAKE_AMOUNT, "stake amount must be positive")
	}
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}
	total, overflow := math.SafeAdd(pool.Active.Value(), pool.PendingActive.Value())
	if !overflow {
		total, overflow = math.SafeAdd(total, amount)
	}
	if overflow || total > cfg.MaximumStake {
		return throw.InvalidArgument(ESTAKE_EXCEEDS_MAX, "stake of %s would exceed %d", addr.ShortString(), cfg.MaximumStake)
	}
	return nil
}

func (s *Stake) addStake(addr chain.Address, coins *coin.Coin) error {
	amount := coins.Value()
	if err := s.checkStakeCapacity(addr, amount); err != nil {
		return err
	}
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}

	current, err := s.IsCurrentEpochValidator(addr)
	if err != nil {
		return err
	}
	if current {
		err = pool.PendingActive.Merge(coins)
	} else {
		err = pool.Active.Merge(coins)
	}
	if err != nil {
		return err
	}
	if err := pools.Put(s.state, addr, pool); err != nil {
		return err
	}
	logger.Debug("stake added", "pool", addr, "amount", amount, "pending", current)
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.AddStake },
		"AddStakeEvent", &AddStakeEvent{PoolAddress: addr, AmountAdded: amount})
}

// Unlock moves up to amount of active stake of the pool owned by owner to pending_inactive.
func (s *Stake) Unlock(owner chain.Address, amount uint64) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	return s.unlock(pool, amount)
}

// UnlockWithCap is Unlock authorized by a capability.
func (s *Stake) UnlockWithCap(pool chain.Address, amount uint64, capability *OwnerCapability) error {
	if err := s.checkCap(capability, pool); err != nil {
		return err
	}
	return s.unlock(pool, amount)
}

func (s *Stake) unlock(addr chain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}
	amount = min(amount, pool.Active.Value())
	if amount == 0 {
		return nil
	}
	unlocked, err := pool.Active.Extract(amount)
	if err != nil {
		return err
	}
	if err := pool.PendingInactive.Merge(&unlocked); err != nil {
		return err
	}
	if err := pools.Put(s.state, addr, pool); err != nil {
		return err
	}
	logger.Debug("stake unlocked", "pool", addr, "amount", amount)
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.UnlockStake },
		"UnlockStakeEvent", &UnlockStakeEvent{PoolAddress: addr, AmountUnlocked: amount})
}

// Withdraw credits up to amount of inactive stake of the pool owned by owner
// back to the ledger balance of owner.
func (s *Stake) Withdraw(owner chain.Address, amount uint64) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	coins, err := s.withdraw(pool, amount)
	if err != nil {
		return err
	}
	return s.coins.Deposit(owner, &coins)
}

// WithdrawWithCap is Withdraw authorized by a capability. The coins are returned to the caller.
func (s *Stake) WithdrawWithCap(pool chain.Address, capability *OwnerCapability, amount uint64) (coin.Coin, error) {
	if err := s.checkCap(capability, pool); err != nil {
		return coin.Coin{}, err
	}
	return s.withdraw(pool, amount)
}

func (s *Stake) withdraw(addr chain.Address, amount uint64) (coin.Coin, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return coin.Coin{}, err
	}
	status, err := s.GetValidatorState(addr)
	if err != nil {
		return coin.Coin{}, err
	}
	now, err := s.now()
	if err != nil {
		return coin.Coin{}, err
	}
	// an inactive pool with an expired lockup has nothing left to wait for
	if status == StatusInactive && now >= pool.LockedUntilSecs {
		unlocked := pool.PendingInactive.ExtractAll()
		if err := pool.Inactive.Merge(&unlocked); err != nil {
			return coin.Coin{}, err
		}
	}
	amount = min(amount, pool.Inactive.Value())
	if amount == 0 {
		return coin.Coin{}, throw.InvalidState(ENO_COINS_TO_WITHDRAW, "no coins to withdraw from %s", addr.ShortString())
	}
	out, err := pool.Inactive.Extract(amount)
	if err != nil {
		return coin.Coin{}, err
	}
	if err := pools.Put(s.state, addr, pool); err != nil {
		return coin.Coin{}, err
	}
	logger.Debug("stake withdrawn", "pool", addr, "amount", amount)
	if err := s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.WithdrawStake },
		"WithdrawStakeEvent", &WithdrawStakeEvent{PoolAddress: addr, AmountWithdrawn: amount}); err != nil {
		return coin.Coin{}, err
	}
	return out, nil
}

// IncreaseLockup extends the lockup of the pool owned by owner to now plus
// the recurring lockup duration.
func (s *Stake) IncreaseLockup(owner chain.Address) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	return s.increaseLockup(pool)
}

// IncreaseLockupWithCap is IncreaseLockup authorized by a capability.
func (s *Stake) IncreaseLockupWithCap(pool chain.Address, capability *OwnerCapability) error {
	if err := s.checkCap(capability, pool); err != nil {
		return err
	}
	return s.increaseLockup(pool)
}

func (s *Stake) increaseLockup(addr chain.Address) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}
	now, err := s.now()
	if err != nil {
		return err
	}
	until, err := s.lockupFrom(now, cfg)
	if err != nil {
		return err
	}
	old := pool.LockedUntilSecs
	pool.LockedUntilSecs = until
	if err := pools.Put(s.state, addr, pool); err != nil {
		return err
	}
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.IncreaseLockup },
		"IncreaseLockupEvent", &IncreaseLockupEvent{PoolAddress: addr, OldLockedUntilSecs: old, NewLockedUntilSecs: until})
}

// SetOperator changes the operator of the pool owned by owner.
func (s *Stake) SetOperator(owner, operator chain.Address) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	return s.setOperator(pool, operator)
}

// SetOperatorWithCap is SetOperator authorized by a capability.
func (s *Stake) SetOperatorWithCap(pool chain.Address, capability *OwnerCapability, operator chain.Address) error {
	if err := s.checkCap(capability, pool); err != nil {
		return err
	}
	return s.setOperator(pool, operator)
}

func (s *Stake) setOperator(addr, operator chain.Address) error {
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}
	old := pool.OperatorAddress
	pool.OperatorAddress = operator
	if err := pools.Put(s.state, addr, pool); err != nil {
		return err
	}
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.SetOperator },
		"SetOperatorEvent", &SetOperatorEvent{PoolAddress: addr, OldOperator: old, NewOperator: operator})
}

// SetDelegatedVoter changes who votes in governance with the stake of the pool owned by owner.
func (s *Stake) SetDelegatedVoter(owner, voter chain.Address) error {
	pool, err := s.ownedPool(owner)
	if err != nil {
		return err
	}
	return s.setDelegatedVoter(pool, voter)
}

// SetDelegatedVoterWithCap is SetDelegatedVoter authorized by a capability.
func (s *Stake) SetDelegatedVoterWithCap(pool chain.Address, capability *OwnerCapability, voter chain.Address) error {
	if err := s.checkCap(capability, pool); err != nil {
		return err
	}
	return s.setDelegatedVoter(pool, voter)
}

func (s *Stake) setDelegatedVoter(addr, voter chain.Address) error {
	pool, err := s.pool(addr)
	if err != nil {
		return err
	}
	pool.DelegatedVoter = voter
	return pools.Put(s.state, addr, pool)
}
