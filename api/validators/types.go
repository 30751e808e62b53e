// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/stake"
)

type Validator struct {
	Address           chain.Address `json:"address"`
	VotingPower       uint64        `json:"votingPower"`
	ValidatorIndex    uint64        `json:"validatorIndex"`
	ConsensusPubkey   hexutil.Bytes `json:"consensusPubkey"`
	NetworkAddresses  string        `json:"networkAddresses"`
	FullnodeAddresses string        `json:"fullnodeAddresses"`
}

type ValidatorSet struct {
	ConsensusScheme  uint8        `json:"consensusScheme"`
	Active           []*Validator `json:"active"`
	PendingActive    []*Validator `json:"pendingActive"`
	PendingInactive  []*Validator `json:"pendingInactive"`
	TotalVotingPower uint64       `json:"totalVotingPower"`
}

// Performance reports the current epoch's missed votes by validator index.
type Performance struct {
	NumBlocks   uint64   `json:"numBlocks"`
	MissedVotes []uint64 `json:"missedVotes"`
}

type Config struct {
	MinimumStake                uint64 `json:"minimumStake"`
	MaximumStake                uint64 `json:"maximumStake"`
	RecurringLockupDurationSecs uint64 `json:"recurringLockupDurationSecs"`
	AllowValidatorSetChange     bool   `json:"allowValidatorSetChange"`
	RewardsRate                 uint64 `json:"rewardsRate"`
	RewardsRateDenominator      uint64 `json:"rewardsRateDenominator"`
}

func convertValidators(infos []stake.ValidatorInfo) []*Validator {
	vals := make([]*Validator, 0, len(infos))
	for _, info := range infos {
		vals = append(vals, &Validator{
			Address:           info.Addr,
			VotingPower:       info.VotingPower,
			ValidatorIndex:    info.Config.ValidatorIndex,
			ConsensusPubkey:   info.Config.ConsensusPubkey,
			NetworkAddresses:  string(info.Config.NetworkAddresses),
			FullnodeAddresses: string(info.Config.FullnodeAddresses),
		})
	}
	return vals
}

func convertValidatorSet(set *stake.ValidatorSet) *ValidatorSet {
	res := &ValidatorSet{
		ConsensusScheme: set.ConsensusScheme,
		Active:          convertValidators(set.ActiveValidators),
		PendingActive:   convertValidators(set.PendingActive),
		PendingInactive: convertValidators(set.PendingInactive),
	}
	for _, v := range res.Active {
		res.TotalVotingPower += v.VotingPower
	}
	return res
}

func convertConfig(cfg *stake.ValidatorSetConfiguration) *Config {
	return &Config{
		MinimumStake:                cfg.MinimumStake,
		MaximumStake:                cfg.MaximumStake,
		RecurringLockupDurationSecs: cfg.RecurringLockupDurationSecs,
		AllowValidatorSetChange:     cfg.AllowValidatorSetChange,
		RewardsRate:                 cfg.RewardsRate,
		RewardsRateDenominator:      cfg.RewardsRateDenominator,
	}
}
