// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

type RegisterValidatorCandidateEvent struct {
	PoolAddress chain.Address `json:"poolAddress"`
}

type RotateConsensusKeyEvent struct {
	PoolAddress        chain.Address `json:"poolAddress"`
	OldConsensusPubkey hexutil.Bytes `json:"oldConsensusPubkey"`
	NewConsensusPubkey hexutil.Bytes `json:"newConsensusPubkey"`
}

type UpdateNetworkAndFullnodeAddressesEvent struct {
	PoolAddress          chain.Address `json:"poolAddress"`
	OldNetworkAddresses  hexutil.Bytes `json:"oldNetworkAddresses"`
	NewNetworkAddresses  hexutil.Bytes `json:"newNetworkAddresses"`
	OldFullnodeAddresses hexutil.Bytes `json:"oldFullnodeAddresses"`
	NewFullnodeAddresses hexutil.Bytes `json:"newFullnodeAddresses"`
}

type SetOperatorEvent struct {
	PoolAddress chain.Address `json:"poolAddress"`
	OldOperator chain.Address `json:"oldOperator"`
	NewOperator chain.Address `json:"newOperator"`
}

type AddStakeEvent struct {
	PoolAddress chain.Address `json:"poolAddress"`
	AmountAdded uint64        `json:"amountAdded"`
}

type UnlockStakeEvent struct {
	PoolAddress    chain.Address `json:"poolAddress"`
	AmountUnlocked uint64        `json:"amountUnlocked"`
}

type WithdrawStakeEvent struct {
	PoolAddress     chain.Address `json:"poolAddress"`
	AmountWithdrawn uint64        `json:"amountWithdrawn"`
}

type IncreaseLockupEvent struct {
	PoolAddress        chain.Address `json:"poolAddress"`
	OldLockedUntilSecs uint64        `json:"oldLockedUntilSecs"`
	NewLockedUntilSecs uint64        `json:"newLockedUntilSecs"`
}

type JoinValidatorSetEvent struct {
	PoolAddress chain.Address `json:"poolAddress"`
}

type DistributeRewardsEvent struct {
	PoolAddress   chain.Address `json:"poolAddress"`
	RewardsAmount uint64        `json:"rewardsAmount"`
}

type LeaveValidatorSetEvent struct {
	PoolAddress chain.Address `json:"poolAddress"`
}

// emit appends an event to one of the pool's streams.
func (s *Stake) emit(pool chain.Address, stream func(*StakePoolEvents) *events.Handle, typ string, data any) error {
	evs, err := poolEvents.Borrow(s.state, pool)
	if err != nil {
		return err
	}
	events.Emit(s.state, stream(evs), typ, data)
	return poolEvents.Put(s.state, pool, evs)
}
