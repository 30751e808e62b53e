// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/reverts"
)

func TestRewardDistribution(t *testing.T) {
	env := newTestEnv(t, testConfig)
	a := addr("a")
	env.validator(a, 100).epoch()

	assert.Equal(t, StatusActive, env.status(a))
	env.start().setTime(10)
	env.blocks(10).epoch()

	assert.Equal(t, Balances{Active: 101}, env.stakeOf(a))

	supply, _, err := env.coins.Supply()
	require.NoError(t, err)
	assert.Equal(t, uint64(101), supply.Uint64())

	set, err := env.staker.ValidatorSet()
	require.NoError(t, err)
	require.Len(t, set.ActiveValidators, 1)
	assert.Equal(t, uint64(101), set.ActiveValidators[0].VotingPower)
}

func TestRewardAmount(t *testing.T) {
	cfg := &ValidatorSetConfiguration{RewardsRate: 1, RewardsRateDenominator: 100}
	tests := []struct {
		name                      string
		power, blocks, successful uint64
		want                      uint64
	}{
		{"full participation", 100, 10, 10, 1},
		{"no blocks", 100, 0, 0, 0},
		{"half participation", 10_000, 10, 5, 50},
		{"rounds down", 199, 10, 10, 1},
		{"large power", 1 << 62, 3, 2, (1 << 62) / 100 * 2 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewardAmount(tt.power, tt.blocks, tt.successful, cfg))
		})
	}
}

func TestMissedVotesReduceRewards(t *testing.T) {
	env := newTestEnv(t, testConfig)
	a, b := addr("a"), addr("b")
	env.validator(a, 1000).validator(b, 1000).epoch()
	env.start().setTime(10)

	idx := func(pool chain.Address) uint64 {
		cfg, err := env.staker.GetValidatorConfig(pool)
		require.NoError(t, err)
		return cfg.ValidatorIndex
	}
	env.blocks(5, idx(a)).blocks(5)
	// out of range indices are ignored
	env.blocks(0, 99)
	require.NoError(t, env.staker.UpdatePerformanceStatistics([]uint64{99}))

	perf, err := env.staker.Performance()
	require.NoError(t, err)
	assert.Equal(t, uint64(11), perf.NumBlocks)
	assert.Equal(t, uint64(5), perf.MissedVotes[idx(a)])

	env.epoch()
	// 1000 * 1/100 = 10, times 6/11 and 11/11
	assert.Equal(t, uint64(1005), env.stakeOf(a).Active)
	assert.Equal(t, uint64(1010), env.stakeOf(b).Active)

	perf, err = env.staker.Performance()
	require.NoError(t, err)
	assert.Equal(t, &ValidatorPerformance{MissedVotes: []uint64{0, 0}}, perf)
}

func TestJoinLeave(t *testing.T) {
	env := newTestEnv(t, testConfig)
	a, b, c := addr("a"), addr("b"), addr("c")
	env.validator(a, 1000).validator(b, 1000)
	assert.Equal(t, StatusPendingActive, env.status(a))

	err := env.staker.JoinValidatorSet(a, a)
	assert.True(t, reverts.Is(err, reverts.InvalidState, EALREADY_ACTIVE_VALIDATOR))

	env.epoch()
	assert.Equal(t, StatusActive, env.status(a))
	assert.Equal(t, StatusActive, env.status(b))

	env.fund(c, 50)
	require.NoError(t, env.staker.RegisterValidatorCandidate(c, []byte{3}, nil, nil, nil))
	require.NoError(t, env.staker.AddStake(c, 50))
	err = env.staker.JoinValidatorSet(c, c)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, ESTAKE_TOO_LOW))
	err = env.staker.JoinValidatorSet(a, c)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OPERATOR))
	err = env.staker.LeaveValidatorSet(c, c)
	assert.True(t, reverts.Is(err, reverts.InvalidState, ENOT_VALIDATOR))

	require.NoError(t, env.staker.LeaveValidatorSet(a, a))
	assert.Equal(t, StatusPendingInactive, env.status(a))
	current, err := env.staker.IsCurrentEpochValidator(a)
	require.NoError(t, err)
	assert.True(t, current)

	err = env.staker.LeaveValidatorSet(b, b)
	assert.True(t, reverts.Is(err, reverts.InvalidState, ELAST_VALIDATOR))

	env.epoch()
	assert.Equal(t, StatusInactive, env.status(a))
	assert.Equal(t, StatusActive, env.status(b))

	// leaving while pending drops the request
	require.NoError(t, env.staker.JoinValidatorSet(a, a))
	require.NoError(t, env.staker.LeaveValidatorSet(a, a))
	assert.Equal(t, StatusInactive, env.status(a))

	// post genesis set changes can be switched off
	env.start()
	require.NoError(t, env.staker.SetAllowValidatorSetChange(chain.CoreResourceAddress, false))
	err = env.staker.JoinValidatorSet(a, a)
	assert.True(t, reverts.Is(err, reverts.InvalidState, ENO_POST_GENESIS_VALIDATOR_SET_CHANGE_ALLOWED))
	err = env.staker.LeaveValidatorSet(b, b)
	assert.True(t, reverts.Is(err, reverts.InvalidState, ENO_POST_GENESIS_VALIDATOR_SET_CHANGE_ALLOWED))
}

func TestOnNewEpochReindexes(t *testing.T) {
	cfg := testConfig
	cfg.MaximumStake = 1500
	env := newTestEnv(t, cfg)
	pools := []chain.Address{addr("a"), addr("b"), addr("c"), addr("d")}
	for i, p := range pools {
		env.validator(p, uint64(1000+i*100))
	}
	env.epoch()

	set, err := env.staker.ValidatorSet()
	require.NoError(t, err)
	require.Len(t, set.ActiveValidators, 4)
	assert.Empty(t, set.PendingActive)
	assert.Empty(t, set.PendingInactive)

	sorted := append([]ValidatorInfo(nil), set.ActiveValidators...)
	for i := range sorted {
		sorted[i].Config.ValidatorIndex = 0
	}
	require.NoError(t, SortValidators(sorted))

	for i, info := range set.ActiveValidators {
		assert.Equal(t, uint64(i), info.Config.ValidatorIndex)
		stored, err := env.staker.GetValidatorConfig(info.Addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), stored.ValidatorIndex)
		assert.Equal(t, sorted[i].Addr, info.Addr)
	}

	// stake dropping below the minimum removes the validator at the next epoch
	victim := set.ActiveValidators[0].Addr
	env.start().setTime(1)
	require.NoError(t, env.staker.Unlock(victim, 10_000))
	env.epoch()
	assert.Equal(t, StatusInactive, env.status(victim))

	set, err = env.staker.ValidatorSet()
	require.NoError(t, err)
	assert.Len(t, set.ActiveValidators, 3)
	for _, info := range set.ActiveValidators {
		assert.LessOrEqual(t, info.VotingPower, cfg.MaximumStake)
	}
}

func TestLockupRenewal(t *testing.T) {
	for _, tt := range []struct {
		name    string
		renewal LockupRenewal
		want    uint64
	}{
		{"if expired", RenewIfExpired, 3600},
		{"always", RenewAlways, 100 + 3600},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig
			cfg.LockupRenewal = tt.renewal
			env := newTestEnv(t, cfg)
			a := addr("a")
			env.validator(a, 1000).epoch()
			env.start().setTime(100).epoch()

			lockup, err := env.staker.GetLockupSecs(a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lockup)
		})
	}
}

func TestEpochVotingPower(t *testing.T) {
	env := newTestEnv(t, testConfig)
	a, b := addr("a"), addr("b")
	env.validator(a, 1000).validator(b, 500)

	power, err := env.staker.GetCurrentEpochVotingPower(a)
	require.NoError(t, err)
	assert.Zero(t, power)

	env.epoch()
	require.NoError(t, env.staker.Unlock(a, 300))
	power, err = env.staker.GetCurrentEpochVotingPower(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), power)
}
