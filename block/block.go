// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package block implements the block prologue: the per-block entry point that
// advances the clock, records validator performance and triggers epoch changes.
package block

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/reconfig"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/timestamp"
)

const throw = reverts.Thrower("block")

// abort reasons
const (
	EBLOCK_METADATA      uint64 = 1
	EVM_ADDRESS          uint64 = 2
	EINVALID_PROPOSER    uint64 = 3
	EINVALID_EPOCH       uint64 = 4
	EZERO_EPOCH_INTERVAL uint64 = 5
	EOVERFLOW            uint64 = 6
	ENOT_CORE_RESOURCE   uint64 = 7
)

var (
	logger       = log.WithContext("pkg", "block")
	metricHeight = metrics.LazyLoadGauge("block_height")
	metricMissed = metrics.LazyLoadCounter("block_missed_votes_total")
)

// Resource holds the chain height and the epoch length.
type Resource struct {
	Height         uint64
	EpochInterval  uint64 // microseconds
	NewBlockEvents events.Handle
}

// NewBlockEvent is emitted by every prologue.
type NewBlockEvent struct {
	Epoch                 uint64        `json:"epoch"`
	Round                 uint64        `json:"round"`
	Height                uint64        `json:"height"`
	PreviousBlockVotes    []bool        `json:"previousBlockVotes"`
	Proposer              chain.Address `json:"proposer"`
	FailedProposerIndices []uint64      `json:"failedProposerIndices"`
	TimeMicroseconds      uint64        `json:"timeMicroseconds"`
}

// Metadata is the input of a prologue, as produced by consensus.
type Metadata struct {
	Epoch                 uint64
	Round                 uint64
	PreviousBlockVotes    []bool
	MissedVotes           []uint64 // validator indices
	Proposer              chain.Address
	FailedProposerIndices []uint64
	TimestampMicros       uint64
}

var resources = state.NewResource[Resource]("block::BlockResource")

// Block runs block prologues.
type Block struct {
	state    *state.State
	clock    *timestamp.Oracle
	staker   *stake.Stake
	reconfig *reconfig.Reconfig
}

// New create a new instance.
func New(st *state.State, clock *timestamp.Oracle, staker *stake.Stake, rc *reconfig.Reconfig) *Block {
	return &Block{
		state:    st,
		clock:    clock,
		staker:   staker,
		reconfig: rc,
	}
}

// Initialize publishes the block resource at genesis.
func (b *Block) Initialize(account chain.Address, epochIntervalMicros uint64) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	if epochIntervalMicros == 0 {
		return throw.InvalidArgument(EZERO_EPOCH_INTERVAL, "epoch interval must be positive")
	}
	exists, err := resources.Exists(b.state, chain.CoreResourceAddress)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EBLOCK_METADATA, "block resource already initialized")
	}
	handle, err := events.NewHandle(b.state, chain.CoreResourceAddress)
	if err != nil {
		return err
	}
	return resources.Put(b.state, chain.CoreResourceAddress, &Resource{
		EpochInterval:  epochIntervalMicros,
		NewBlockEvents: handle,
	})
}

func (b *Block) resource() (*Resource, error) {
	r, exist, err := resources.Get(b.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(EBLOCK_METADATA, "block resource not initialized")
	}
	return r, nil
}

// UpdateEpochInterval changes the epoch length.
func (b *Block) UpdateEpochInterval(account chain.Address, epochIntervalMicros uint64) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	if epochIntervalMicros == 0 {
		return throw.InvalidArgument(EZERO_EPOCH_INTERVAL, "epoch interval must be positive")
	}
	r, err := b.resource()
	if err != nil {
		return err
	}
	r.EpochInterval = epochIntervalMicros
	return resources.Put(b.state, chain.CoreResourceAddress, r)
}

// Height returns the number of prologues run so far.
func (b *Block) Height() (uint64, error) {
	r, err := b.resource()
	if err != nil {
		return 0, err
	}
	return r.Height, nil
}

// EpochInterval returns the epoch length in microseconds.
func (b *Block) EpochInterval() (uint64, error) {
	r, err := b.resource()
	if err != nil {
		return 0, err
	}
	return r.EpochInterval, nil
}

// Prologue is called by the VM once at the start of every block.
func (b *Block) Prologue(vm chain.Address, meta Metadata) error {
	if vm != chain.VMAddress {
		return throw.PermissionDenied(EVM_ADDRESS, "%s is not the vm", vm.ShortString())
	}
	if meta.Proposer != chain.VMAddress {
		ok, err := b.staker.IsCurrentEpochValidator(meta.Proposer)
		if err != nil {
			return err
		}
		if !ok {
			return throw.InvalidArgument(EINVALID_PROPOSER, "proposer %s is not a current validator", meta.Proposer.ShortString())
		}
	}
	epoch, err := b.reconfig.CurrentEpoch()
	if err != nil {
		return err
	}
	if meta.Epoch != epoch {
		return throw.InvalidArgument(EINVALID_EPOCH, "block epoch %d, current %d", meta.Epoch, epoch)
	}

	r, err := b.resource()
	if err != nil {
		return err
	}
	if err := b.clock.UpdateGlobalTime(vm, meta.Proposer, meta.TimestampMicros); err != nil {
		return err
	}
	height, overflow := math.SafeAdd(r.Height, 1)
	if overflow {
		return throw.OutOfRange(EOVERFLOW, "height overflows")
	}
	r.Height = height
	events.Emit(b.state, &r.NewBlockEvents, "NewBlockEvent", &NewBlockEvent{
		Epoch:                 meta.Epoch,
		Round:                 meta.Round,
		Height:                height,
		PreviousBlockVotes:    meta.PreviousBlockVotes,
		Proposer:              meta.Proposer,
		FailedProposerIndices: meta.FailedProposerIndices,
		TimeMicroseconds:      meta.TimestampMicros,
	})
	if err := resources.Put(b.state, chain.CoreResourceAddress, r); err != nil {
		return err
	}
	if err := b.staker.UpdatePerformanceStatistics(meta.MissedVotes); err != nil {
		return err
	}
	metricHeight().Set(int64(height))
	metricMissed().Add(int64(len(meta.MissedVotes)))
	logger.Debug("block prologue", "height", height, "round", meta.Round, "proposer", meta.Proposer.ShortString())

	last, err := b.reconfig.LastReconfigurationTime()
	if err != nil {
		return err
	}
	if meta.TimestampMicros >= last && meta.TimestampMicros-last >= r.EpochInterval {
		return b.reconfig.Reconfigure()
	}
	return nil
}
