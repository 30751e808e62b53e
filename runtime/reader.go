// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/governance"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/voting"
)

// Reader is a read-only view of the ledger, valid inside View.
type Reader struct {
	r *Runtime
}

// EpochInfo summarizes reconfiguration and block progress.
type EpochInfo struct {
	Epoch                   uint64 `json:"epoch"`
	LastReconfigurationTime uint64 `json:"lastReconfigurationTime"`
	Height                  uint64 `json:"height"`
	EpochIntervalMicros     uint64 `json:"epochIntervalMicros"`
	NowMicroseconds         uint64 `json:"nowMicroseconds"`
	ReconfigurationEnabled  bool   `json:"reconfigurationEnabled"`
}

func (rd *Reader) Epoch() (*EpochInfo, error) {
	var (
		info EpochInfo
		err  error
	)
	if info.Epoch, err = rd.r.reconfig.CurrentEpoch(); err != nil {
		return nil, err
	}
	if info.LastReconfigurationTime, err = rd.r.reconfig.LastReconfigurationTime(); err != nil {
		return nil, err
	}
	if info.Height, err = rd.r.block.Height(); err != nil {
		return nil, err
	}
	if info.EpochIntervalMicros, err = rd.r.block.EpochInterval(); err != nil {
		return nil, err
	}
	if info.NowMicroseconds, err = rd.r.clock.NowMicroseconds(); err != nil {
		return nil, err
	}
	if info.ReconfigurationEnabled, err = rd.r.reconfig.ReconfigurationEnabled(); err != nil {
		return nil, err
	}
	return &info, nil
}

func (rd *Reader) ValidatorSet() (*stake.ValidatorSet, error) {
	return rd.r.staker.ValidatorSet()
}

func (rd *Reader) Performance() (*stake.ValidatorPerformance, error) {
	return rd.r.staker.Performance()
}

func (rd *Reader) StakeConfig() (*stake.ValidatorSetConfiguration, error) {
	return rd.r.staker.Config()
}

// PoolInfo is the externally visible state of one stake pool.
type PoolInfo struct {
	Address          chain.Address  `json:"address"`
	Status           string         `json:"status"`
	Stake            stake.Balances `json:"stake"`
	LockedUntilSecs  uint64         `json:"lockedUntilSecs"`
	Operator         chain.Address  `json:"operator"`
	DelegatedVoter   chain.Address  `json:"delegatedVoter"`
	OwnerCapHolder   *chain.Address `json:"ownerCapHolder"`
	ValidatorIndex   uint64         `json:"validatorIndex"`
	ConsensusPubkey  hexutil.Bytes  `json:"consensusPubkey"`
	NetworkAddresses string         `json:"networkAddresses"`
}

// Pool returns the state of the pool at addr, or false if none is registered.
func (rd *Reader) Pool(addr chain.Address) (*PoolInfo, bool, error) {
	s := rd.r.staker
	ok, err := s.IsRegistered(addr)
	if err != nil || !ok {
		return nil, false, err
	}
	pool, err := s.GetPool(addr)
	if err != nil {
		return nil, false, err
	}
	status, err := s.GetValidatorState(addr)
	if err != nil {
		return nil, false, err
	}
	balances, err := s.GetStake(addr)
	if err != nil {
		return nil, false, err
	}
	vcfg, err := s.GetValidatorConfig(addr)
	if err != nil {
		return nil, false, err
	}
	info := &PoolInfo{
		Address:          addr,
		Status:           status.String(),
		Stake:            balances,
		LockedUntilSecs:  pool.LockedUntilSecs,
		Operator:         pool.OperatorAddress,
		DelegatedVoter:   pool.DelegatedVoter,
		ValidatorIndex:   vcfg.ValidatorIndex,
		ConsensusPubkey:  vcfg.ConsensusPubkey,
		NetworkAddresses: string(vcfg.NetworkAddresses),
	}
	holder, held, err := s.OwnerCapHolder(addr)
	if err != nil {
		return nil, false, err
	}
	if held {
		info.OwnerCapHolder = &holder
	}
	return info, true, nil
}

// Balance returns the coin balance of addr, or false without a coin store.
func (rd *Reader) Balance(addr chain.Address) (uint64, bool, error) {
	ok, err := rd.r.coins.IsRegistered(addr)
	if err != nil || !ok {
		return 0, false, err
	}
	bal, err := rd.r.coins.Balance(addr)
	if err != nil {
		return 0, false, err
	}
	return bal, true, nil
}

func (rd *Reader) Supply() (*uint256.Int, bool, error) {
	return rd.r.coins.Supply()
}

func (rd *Reader) GovernanceConfig() (*governance.Config, error) {
	return rd.r.gov.GetConfig()
}

func (rd *Reader) Proposal(id uint64) (*voting.Proposal[governance.GovernanceProposal], voting.State, error) {
	p, err := rd.r.gov.Proposal(id)
	if err != nil {
		return nil, 0, err
	}
	st, err := rd.r.gov.ProposalState(id)
	if err != nil {
		return nil, 0, err
	}
	return p, st, nil
}

func (rd *Reader) NextProposalID() (uint64, error) {
	return rd.r.gov.NextProposalID()
}

func (rd *Reader) HasVoted(pool chain.Address, id uint64) (bool, error) {
	return rd.r.gov.HasVoted(pool, id)
}
