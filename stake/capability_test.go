// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/reverts"
)

func TestOwnerCapability(t *testing.T) {
	env := newTestEnv(t, testConfig)
	alice, bob, carol := addr("alice"), addr("bob"), addr("carol")
	env.fund(alice, 1000).fund(carol, 1000)
	require.NoError(t, env.staker.RegisterValidatorCandidate(alice, []byte{1}, nil, nil, nil))
	require.NoError(t, env.staker.RegisterValidatorCandidate(bob, []byte{2}, nil, nil, nil))

	_, err := env.staker.ExtractOwnerCap(carol)
	assert.True(t, reverts.Is(err, reverts.NotFound, EOWNER_CAP_NOT_FOUND))

	capability, err := env.staker.ExtractOwnerCap(alice)
	require.NoError(t, err)
	assert.Equal(t, alice, capability.PoolAddress())

	_, inCustody, err := env.staker.OwnerCapHolder(alice)
	require.NoError(t, err)
	assert.False(t, inCustody)

	// the former holder lost authority
	err = env.staker.Unlock(alice, 1)
	assert.True(t, reverts.Is(err, reverts.NotFound, EOWNER_CAP_NOT_FOUND))

	// a capability only controls its own pool
	err = env.staker.SetOperatorWithCap(bob, capability, carol)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))
	err = env.staker.UnlockWithCap(bob, 1, capability)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))

	coins, err := env.coins.Withdraw(carol, 200)
	require.NoError(t, err)
	require.NoError(t, env.staker.AddStakeWithCap(alice, capability, &coins))
	assert.Equal(t, uint64(0), coins.Value())
	assert.Equal(t, Balances{Active: 200}, env.stakeOf(alice))

	require.NoError(t, env.staker.SetOperatorWithCap(alice, capability, carol))
	require.NoError(t, env.staker.SetDelegatedVoterWithCap(alice, capability, carol))
	require.NoError(t, env.staker.IncreaseLockupWithCap(alice, capability))
	require.NoError(t, env.staker.UnlockWithCap(alice, 50, capability))

	// bob already holds his own capability
	err = env.staker.DepositOwnerCap(bob, capability)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists, EOWNER_CAP_ALREADY_EXISTS))

	copied := *capability
	require.NoError(t, env.staker.DepositOwnerCap(carol, capability))
	assert.Equal(t, OwnerCapability{}, *capability, "deposit consumes the token")

	holder, inCustody, err := env.staker.OwnerCapHolder(alice)
	require.NoError(t, err)
	assert.True(t, inCustody)
	assert.Equal(t, carol, holder)

	// a copy cannot be deposited again nor used while the original is held
	err = env.staker.DepositOwnerCap(alice, &copied)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))
	err = env.staker.UnlockWithCap(alice, 1, &copied)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))

	// extracting again invalidates every earlier copy
	again, err := env.staker.ExtractOwnerCap(carol)
	require.NoError(t, err)
	err = env.staker.UnlockWithCap(alice, 1, &copied)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))
	require.NoError(t, env.staker.UnlockWithCap(alice, 1, again))

	_, err = env.staker.WithdrawWithCap(alice, &OwnerCapability{}, 1)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_OWNER))
	assert.True(t, reverts.Is(env.staker.DepositOwnerCap(carol, nil), reverts.PermissionDenied, ENOT_OWNER))
}
