// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"bytes"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

func (s *Stake) assertOperator(operator, addr chain.Address) (*StakePool, error) {
	pool, err := s.pool(addr)
	if err != nil {
		return nil, err
	}
	if pool.OperatorAddress != operator {
		return nil, throw.PermissionDenied(ENOT_OPERATOR, "%s is not the operator of %s", operator.ShortString(), addr.ShortString())
	}
	return pool, nil
}

// RotateConsensusKey replaces the consensus key of the pool. The new key
// takes effect at the next epoch.
func (s *Stake) RotateConsensusKey(operator, addr chain.Address, pubkey, proof []byte) error {
	if _, err := s.assertOperator(operator, addr); err != nil {
		return err
	}
	cfg, err := s.validatorConfig(addr)
	if err != nil {
		return err
	}
	if !s.verifier.VerifyProofOfPossession(pubkey, proof) {
		return throw.InvalidArgument(EINVALID_PUBLIC_KEY, "invalid proof of possession")
	}
	old := cfg.ConsensusPubkey
	cfg.ConsensusPubkey = bytes.Clone(pubkey)
	if err := validatorCfgs.Put(s.state, addr, cfg); err != nil {
		return err
	}
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.RotateConsensusKey },
		"RotateConsensusKeyEvent", &RotateConsensusKeyEvent{PoolAddress: addr, OldConsensusPubkey: old, NewConsensusPubkey: pubkey})
}

// UpdateNetworkAndFullnodeAddresses replaces the network addresses of the pool.
func (s *Stake) UpdateNetworkAndFullnodeAddresses(operator, addr chain.Address, networkAddrs, fullnodeAddrs []byte) error {
	if _, err := s.assertOperator(operator, addr); err != nil {
		return err
	}
	cfg, err := s.validatorConfig(addr)
	if err != nil {
		return err
	}
	ev := &UpdateNetworkAndFullnodeAddressesEvent{
		PoolAddress:          addr,
		OldNetworkAddresses:  cfg.NetworkAddresses,
		NewNetworkAddresses:  networkAddrs,
		OldFullnodeAddresses: cfg.FullnodeAddresses,
		NewFullnodeAddresses: fullnodeAddrs,
	}
	cfg.NetworkAddresses = bytes.Clone(networkAddrs)
	cfg.FullnodeAddresses = bytes.Clone(fullnodeAddrs)
	if err := validatorCfgs.Put(s.state, addr, cfg); err != nil {
		return err
	}
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.UpdateNetworkAndFullnodeAddresses },
		"UpdateNetworkAndFullnodeAddressesEvent", ev)
}

func (s *Stake) assertSetChangeAllowed(cfg *ValidatorSetConfiguration) error {
	if cfg.AllowValidatorSetChange {
		return nil
	}
	genesis, err := s.clock.IsGenesis()
	if err != nil {
		return err
	}
	if !genesis {
		return throw.InvalidState(ENO_POST_GENESIS_VALIDATOR_SET_CHANGE_ALLOWED, "validator set changes are not allowed")
	}
	return nil
}

// JoinValidatorSet queues the pool to become active at the next epoch.
func (s *Stake) JoinValidatorSet(operator, addr chain.Address) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	if err := s.assertSetChangeAllowed(cfg); err != nil {
		return err
	}
	pool, err := s.assertOperator(operator, addr)
	if err != nil {
		return err
	}
	status, err := s.GetValidatorState(addr)
	if err != nil {
		return err
	}
	if status != StatusInactive {
		return throw.InvalidState(EALREADY_ACTIVE_VALIDATOR, "%s is %s", addr.ShortString(), status)
	}
	votingPower := pool.Active.Value()
	if votingPower < cfg.MinimumStake {
		return throw.InvalidArgument(ESTAKE_TOO_LOW, "stake %d below minimum %d", votingPower, cfg.MinimumStake)
	}
	if votingPower > cfg.MaximumStake {
		return throw.InvalidArgument(ESTAKE_TOO_HIGH, "stake %d above maximum %d", votingPower, cfg.MaximumStake)
	}
	vcfg, err := s.validatorConfig(addr)
	if err != nil {
		return err
	}
	set, err := s.validatorSet()
	if err != nil {
		return err
	}
	set.PendingActive = append(set.PendingActive, ValidatorInfo{
		Addr:        addr,
		VotingPower: votingPower,
		Config:      *vcfg,
	})
	if err := validatorSets.Put(s.state, chain.CoreResourceAddress, set); err != nil {
		return err
	}
	logger.Debug("validator joining", "pool", addr, "votingPower", votingPower)
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.JoinValidatorSet },
		"JoinValidatorSetEvent", &JoinValidatorSetEvent{PoolAddress: addr})
}

// LeaveValidatorSet requests the pool to leave the set. An active validator
// moves to pending_inactive until the next epoch, a pending one is dropped at once.
func (s *Stake) LeaveValidatorSet(operator, addr chain.Address) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	if err := s.assertSetChangeAllowed(cfg); err != nil {
		return err
	}
	if _, err := s.assertOperator(operator, addr); err != nil {
		return err
	}
	set, err := s.validatorSet()
	if err != nil {
		return err
	}

	if i := findValidator(set.PendingActive, addr); i >= 0 {
		set.PendingActive = swapRemove(set.PendingActive, i)
	} else {
		i := findValidator(set.ActiveValidators, addr)
		if i < 0 {
			return throw.InvalidState(ENOT_VALIDATOR, "%s is not a validator", addr.ShortString())
		}
		if len(set.ActiveValidators) == 1 {
			return throw.InvalidState(ELAST_VALIDATOR, "%s is the last validator", addr.ShortString())
		}
		info := set.ActiveValidators[i]
		set.ActiveValidators = swapRemove(set.ActiveValidators, i)
		set.PendingInactive = append(set.PendingInactive, info)
	}
	if err := validatorSets.Put(s.state, chain.CoreResourceAddress, set); err != nil {
		return err
	}
	logger.Debug("validator leaving", "pool", addr)
	return s.emit(addr, func(e *StakePoolEvents) *events.Handle { return &e.LeaveValidatorSet },
		"LeaveValidatorSetEvent", &LeaveValidatorSetEvent{PoolAddress: addr})
}

func swapRemove(v []ValidatorInfo, i int) []ValidatorInfo {
	last := len(v) - 1
	v[i] = v[last]
	return v[:last]
}
