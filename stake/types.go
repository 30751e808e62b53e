// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/state"
)

// Status is the membership state of a pool in the validator set.
type Status uint64

const (
	StatusPendingActive   Status = 1
	StatusActive          Status = 2
	StatusPendingInactive Status = 3
	StatusInactive        Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusPendingActive:
		return "pending_active"
	case StatusActive:
		return "active"
	case StatusPendingInactive:
		return "pending_inactive"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// LockupRenewal decides when a requeued validator gets its lockup rolled forward.
type LockupRenewal uint8

const (
	// RenewIfExpired rolls the lockup forward only once it has elapsed.
	RenewIfExpired LockupRenewal = iota
	// RenewAlways rolls the lockup forward at every epoch.
	RenewAlways
)

// ValidatorSetConfiguration holds the global staking parameters.
type ValidatorSetConfiguration struct {
	MinimumStake                uint64
	MaximumStake                uint64
	RecurringLockupDurationSecs uint64
	AllowValidatorSetChange     bool
	RewardsRate                 uint64
	RewardsRateDenominator      uint64
	LockupRenewal               LockupRenewal
}

// StakePool is the bonded balance of one validator candidate.
type StakePool struct {
	Active          coin.Coin
	Inactive        coin.Coin
	PendingActive   coin.Coin
	PendingInactive coin.Coin
	LockedUntilSecs uint64
	OperatorAddress chain.Address
	DelegatedVoter  chain.Address
}

// Total sums the four buckets.
func (p *StakePool) Total() uint64 {
	return p.Active.Value() + p.Inactive.Value() + p.PendingActive.Value() + p.PendingInactive.Value()
}

// ValidatorConfig is the network identity of a validator, mutable by its operator.
type ValidatorConfig struct {
	ConsensusPubkey   []byte
	NetworkAddresses  []byte
	FullnodeAddresses []byte
	ValidatorIndex    uint64
}

// ValidatorInfo is a snapshot of a validator taken when it enters or is
// re-evaluated in the set.
type ValidatorInfo struct {
	Addr        chain.Address
	VotingPower uint64
	Config      ValidatorConfig
}

// ValidatorSet partitions the validators of the network.
type ValidatorSet struct {
	ConsensusScheme  uint8
	ActiveValidators []ValidatorInfo
	PendingInactive  []ValidatorInfo
	PendingActive    []ValidatorInfo
}

// ValidatorPerformance counts blocks and missed votes of the current epoch,
// indexed by validator index.
type ValidatorPerformance struct {
	NumBlocks   uint64
	MissedVotes []uint64
}

// StakePoolEvents holds the event streams of one pool.
type StakePoolEvents struct {
	RegisterValidatorCandidate        events.Handle
	SetOperator                       events.Handle
	AddStake                          events.Handle
	RotateConsensusKey                events.Handle
	UpdateNetworkAndFullnodeAddresses events.Handle
	IncreaseLockup                    events.Handle
	JoinValidatorSet                  events.Handle
	DistributeRewards                 events.Handle
	UnlockStake                       events.Handle
	WithdrawStake                     events.Handle
	LeaveValidatorSet                 events.Handle
}

var (
	configs       = state.NewResource[ValidatorSetConfiguration]("stake::ValidatorSetConfiguration")
	validatorSets = state.NewResource[ValidatorSet]("stake::ValidatorSet")
	performances  = state.NewResource[ValidatorPerformance]("stake::ValidatorPerformance")
	pools         = state.NewResource[StakePool]("stake::StakePool")
	poolEvents    = state.NewResource[StakePoolEvents]("stake::StakePoolEvents")
	validatorCfgs = state.NewResource[ValidatorConfig]("stake::ValidatorConfig")
)

func findValidator(v []ValidatorInfo, addr chain.Address) int {
	for i := range v {
		if v[i].Addr == addr {
			return i
		}
	}
	return -1
}
