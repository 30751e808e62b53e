// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/events"
)

// UpdatePerformanceStatistics records one block. Each entry of missedVotes is
// the index of a validator that did not vote; unknown indices are ignored.
func (s *Stake) UpdatePerformanceStatistics(missedVotes []uint64) error {
	perf, err := s.performance()
	if err != nil {
		return err
	}
	for _, idx := range missedVotes {
		if idx < uint64(len(perf.MissedVotes)) {
			perf.MissedVotes[idx]++
		}
	}
	perf.NumBlocks++
	return performances.Put(s.state, chain.CoreResourceAddress, perf)
}

// rewardAmount pays votingPower * rate / denominator, scaled by the share of
// blocks the validator voted on.
func rewardAmount(votingPower, numBlocks, successfulVotes uint64, cfg *ValidatorSetConfiguration) uint64 {
	if numBlocks == 0 || cfg.RewardsRateDenominator == 0 {
		return 0
	}
	amount := new(uint256.Int).Mul(uint256.NewInt(votingPower), uint256.NewInt(cfg.RewardsRate))
	amount.Div(amount, uint256.NewInt(cfg.RewardsRateDenominator))
	amount.Mul(amount, uint256.NewInt(successfulVotes))
	amount.Div(amount, uint256.NewInt(numBlocks))
	if !amount.IsUint64() {
		return 0
	}
	return amount.Uint64()
}

func (s *Stake) mintReward(amount uint64) (coin.Coin, error) {
	if amount == 0 {
		return coin.Zero(), nil
	}
	mintCap, err := s.coins.BorrowMintCapability(chain.CoreResourceAddress)
	if err != nil {
		return coin.Coin{}, err
	}
	return s.coins.Mint(amount, mintCap)
}

// updateStakePool pays the epoch reward of one validator and settles its
// pending buckets.
func (s *Stake) updateStakePool(info *ValidatorInfo, perf *ValidatorPerformance, cfg *ValidatorSetConfiguration, now uint64) (uint64, error) {
	pool, err := s.pool(info.Addr)
	if err != nil {
		return 0, err
	}
	vcfg, err := s.validatorConfig(info.Addr)
	if err != nil {
		return 0, err
	}

	var missed uint64
	if vcfg.ValidatorIndex < uint64(len(perf.MissedVotes)) {
		missed = perf.MissedVotes[vcfg.ValidatorIndex]
	}
	successful := perf.NumBlocks - min(missed, perf.NumBlocks)

	rewards, err := s.mintReward(rewardAmount(info.VotingPower, perf.NumBlocks, successful, cfg))
	if err != nil {
		return 0, err
	}
	paid := rewards.Value()
	// a validator already leaving gets paid into the bucket it is leaving with
	if pool.Active.Value() > 0 {
		err = pool.Active.Merge(&rewards)
	} else {
		err = pool.PendingInactive.Merge(&rewards)
	}
	if err != nil {
		return 0, err
	}

	pending := pool.PendingActive.ExtractAll()
	if err := pool.Active.Merge(&pending); err != nil {
		return 0, err
	}
	if now >= pool.LockedUntilSecs {
		unlocked := pool.PendingInactive.ExtractAll()
		if err := pool.Inactive.Merge(&unlocked); err != nil {
			return 0, err
		}
	}
	if err := pools.Put(s.state, info.Addr, pool); err != nil {
		return 0, err
	}
	if err := s.emit(info.Addr, func(e *StakePoolEvents) *events.Handle { return &e.DistributeRewards },
		"DistributeRewardsEvent", &DistributeRewardsEvent{PoolAddress: info.Addr, RewardsAmount: paid}); err != nil {
		return 0, err
	}
	return paid, nil
}

// OnNewEpoch pays rewards for the ending epoch, settles pending stake and
// commits the validator set of the next epoch in canonical order.
func (s *Stake) OnNewEpoch() error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	set, err := s.validatorSet()
	if err != nil {
		return err
	}
	perf, err := s.performance()
	if err != nil {
		return err
	}
	now, err := s.now()
	if err != nil {
		return err
	}

	var minted uint64
	for _, group := range [][]ValidatorInfo{set.ActiveValidators, set.PendingInactive} {
		for i := range group {
			paid, err := s.updateStakePool(&group[i], perf, cfg, now)
			if err != nil {
				return err
			}
			minted += paid
		}
	}

	candidates := append(set.ActiveValidators, set.PendingActive...)
	set.PendingActive = nil
	set.PendingInactive = nil

	next := make([]ValidatorInfo, 0, len(candidates))
	for _, candidate := range candidates {
		pool, err := s.pool(candidate.Addr)
		if err != nil {
			return err
		}
		votingPower := pool.Active.Value()
		if votingPower < cfg.MinimumStake {
			logger.Debug("validator dropped below minimum stake", "pool", candidate.Addr, "stake", votingPower)
			continue
		}
		votingPower = min(votingPower, cfg.MaximumStake)

		vcfg, err := s.validatorConfig(candidate.Addr)
		if err != nil {
			return err
		}
		next = append(next, ValidatorInfo{
			Addr:        candidate.Addr,
			VotingPower: votingPower,
			Config:      *vcfg,
		})

		if cfg.LockupRenewal == RenewAlways || pool.LockedUntilSecs <= now {
			if pool.LockedUntilSecs, err = s.lockupFrom(now, cfg); err != nil {
				return err
			}
			if err := pools.Put(s.state, candidate.Addr, pool); err != nil {
				return err
			}
		}
	}

	if err := SortValidators(next); err != nil {
		return err
	}
	var totalPower uint64
	for i := range next {
		next[i].Config.ValidatorIndex = uint64(i)
		vcfg, err := s.validatorConfig(next[i].Addr)
		if err != nil {
			return err
		}
		vcfg.ValidatorIndex = uint64(i)
		if err := validatorCfgs.Put(s.state, next[i].Addr, vcfg); err != nil {
			return err
		}
		totalPower += next[i].VotingPower
	}
	set.ActiveValidators = next

	if err := validatorSets.Put(s.state, chain.CoreResourceAddress, set); err != nil {
		return err
	}
	if err := performances.Put(s.state, chain.CoreResourceAddress, &ValidatorPerformance{
		MissedVotes: make([]uint64, len(next)),
	}); err != nil {
		return err
	}

	metricEpochs().Add(1)
	metricRewardsMinted().Add(int64(minted))
	metricActiveValidators().Set(int64(len(next)))
	metricVotingPower().Set(int64(totalPower))
	logger.Info("validator set updated", "active", len(next), "votingPower", totalPower, "rewards", minted)
	return nil
}

// SortValidators orders the set by the canonical encoding of each entry,
// swapping adjacent entries until a full pass makes no change.
func SortValidators(v []ValidatorInfo) error {
	if len(v) < 2 {
		return nil
	}
	keys := make([][]byte, len(v))
	for i := range v {
		enc, err := rlp.EncodeToBytes(&v[i])
		if err != nil {
			return errors.Wrap(err, "encode validator info")
		}
		keys[i] = enc
	}
	for ordered := false; !ordered; {
		ordered = true
		for i := 0; i < len(v)-1; i++ {
			if bytes.Compare(keys[i], keys[i+1]) > 0 {
				v[i], v[i+1] = v[i+1], v[i]
				keys[i], keys[i+1] = keys[i+1], keys[i]
				ordered = false
			}
		}
	}
	return nil
}
