// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/timestamp"
	"github.com/econia-labs/econia-sub003/voting"
)

var (
	poolA = chain.BytesToAddress([]byte("a"))
	poolB = chain.BytesToAddress([]byte("b"))
	small = chain.BytesToAddress([]byte("small"))
	empty = chain.BytesToAddress([]byte("empty"))

	execHash = []byte("execution-hash")
)

type testEnv struct {
	t      *testing.T
	state  *state.State
	clock  *timestamp.Oracle
	staker *stake.Stake
	gov    *Governance
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	coins := coin.New(st)
	clock := timestamp.New(st)
	staker := stake.New(st, coins, clock, pop.AllowAll{})
	gov := New(st, clock, staker, coins)

	mint, _, err := coins.Initialize(chain.CoreResourceAddress, "Aptos Coin", "APT", 8, true)
	require.NoError(t, err)
	require.NoError(t, staker.InitializeValidatorSet(chain.CoreResourceAddress, stake.ValidatorSetConfiguration{
		MinimumStake:                1,
		MaximumStake:                100_000,
		RecurringLockupDurationSecs: 3600,
		AllowValidatorSetChange:     true,
		RewardsRate:                 1,
		RewardsRateDenominator:      100,
	}))
	require.NoError(t, gov.Initialize(chain.CoreResourceAddress, Config{
		MinVotingThreshold:    uint256.NewInt(100),
		RequiredProposerStake: 100,
		VotingPeriodSecs:      600,
	}))

	for _, p := range []struct {
		owner  chain.Address
		amount uint64
	}{{poolA, 1000}, {poolB, 500}, {small, 50}, {empty, 0}} {
		require.NoError(t, coins.Register(p.owner))
		c, err := coins.Mint(p.amount, mint)
		require.NoError(t, err)
		require.NoError(t, coins.Deposit(p.owner, &c))
		require.NoError(t, staker.RegisterValidatorCandidate(p.owner, p.owner.Bytes(), nil, nil, nil))
		if p.amount > 0 {
			require.NoError(t, staker.AddStake(p.owner, p.amount))
		}
		require.NoError(t, staker.IncreaseLockup(p.owner))
	}
	require.NoError(t, clock.SetTimeHasStarted(chain.CoreResourceAddress))

	env := &testEnv{t: t, state: st, clock: clock, staker: staker, gov: gov}
	return env.setTime(10)
}

func (e *testEnv) setTime(secs uint64) *testEnv {
	require.NoError(e.t, e.clock.UpdateGlobalTime(chain.VMAddress, poolA, secs*chain.MicroConversionFactor))
	return e
}

func TestInitialize(t *testing.T) {
	env := newTestEnv(t)

	err := env.gov.Initialize(chain.CoreResourceAddress, Config{})
	assert.True(t, reverts.Is(err, reverts.AlreadyExists, voting.EFORUM_ALREADY_EXISTS))
	err = env.gov.Initialize(poolA, Config{})
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_CORE_RESOURCE))

	cfg, err := env.gov.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), cfg.MinVotingThreshold.Uint64())
	assert.Equal(t, uint64(100), cfg.RequiredProposerStake)
	assert.Equal(t, uint64(600), cfg.VotingPeriodSecs)
}

func TestInsufficientProposerStake(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.gov.CreateProposal(small, small, execHash, nil, nil)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EINSUFFICIENT_PROPOSER_STAKE))
}

func TestCreateProposal(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.gov.CreateProposal(poolB, poolA, execHash, nil, nil)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_DELEGATED_VOTER))

	id, err := env.gov.CreateProposal(poolA, poolA, execHash, []byte("ipfs://meta"), []byte("meta-hash"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	p, err := env.gov.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(610), p.ExpirationSecs)
	assert.Equal(t, uint64(100), p.MinVoteThreshold.Uint64())
	// supply 1550 / 2 + 1
	assert.True(t, p.HasEarlyResolutionThreshold)
	assert.Equal(t, uint64(776), p.EarlyResolutionVoteThreshold.Uint64())

	next, err := env.gov.NextProposalID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	// the proposal would outlive the lockup
	env.setTime(3100)
	_, err = env.gov.CreateProposal(poolA, poolA, execHash, nil, nil)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EINSUFFICIENT_STAKE_LOCKUP))
}

func TestVoteAndResolve(t *testing.T) {
	env := newTestEnv(t)
	id, err := env.gov.CreateProposal(poolA, poolA, execHash, []byte("loc"), []byte("hash"))
	require.NoError(t, err)

	err = env.gov.Vote(poolA, poolB, id, false)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_DELEGATED_VOTER))
	err = env.gov.Vote(empty, empty, id, true)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, ENO_VOTING_POWER))

	require.NoError(t, env.gov.Vote(poolB, poolB, id, false))
	err = env.gov.Vote(poolB, poolB, id, true)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EALREADY_VOTED))
	voted, err := env.gov.HasVoted(poolB, id)
	require.NoError(t, err)
	assert.True(t, voted)

	ps, err := env.gov.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, voting.StatePending, ps)
	_, err = env.gov.Resolve(id, ScriptHash(execHash))
	assert.True(t, reverts.Is(err, reverts.InvalidState, voting.EPROPOSAL_CANNOT_BE_RESOLVED))

	// 1000 yes crosses the early resolution threshold
	require.NoError(t, env.gov.Vote(poolA, poolA, id, true))
	ps, err = env.gov.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, voting.StateSucceeded, ps)

	_, err = env.gov.Resolve(id, ScriptHash("wrong"))
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, voting.EPROPOSAL_EXECUTION_HASH_NOT_MATCHING))
	got, err := env.gov.Resolve(id, ScriptHash(execHash))
	require.NoError(t, err)
	assert.Equal(t, GovernanceProposal{MetadataLocation: "loc", MetadataHash: "hash"}, got)
	_, err = env.gov.Resolve(id, ScriptHash(execHash))
	assert.True(t, reverts.Is(err, reverts.InvalidState, voting.EPROPOSAL_ALREADY_RESOLVED))

	var votes []*VoteEvent
	for _, ev := range env.state.Events() {
		if v, ok := ev.Data.(*VoteEvent); ok {
			votes = append(votes, v)
		}
	}
	require.Len(t, votes, 2)
	assert.Equal(t, VoteEvent{ProposalID: id, Voter: poolB, StakePool: poolB, NumVotes: 500}, *votes[0])
	assert.Equal(t, VoteEvent{ProposalID: id, Voter: poolA, StakePool: poolA, NumVotes: 1000, ShouldPass: true}, *votes[1])
}

func TestVoteNeedsLockupPastExpiration(t *testing.T) {
	env := newTestEnv(t)
	id, err := env.gov.CreateProposal(poolA, poolA, execHash, nil, nil)
	require.NoError(t, err)

	// a longer voting period does not move existing proposals
	require.NoError(t, env.gov.UpdateGovernanceConfig(chain.CoreResourceAddress, Config{
		MinVotingThreshold:    uint256.NewInt(100),
		RequiredProposerStake: 100,
		VotingPeriodSecs:      10_000,
	}))
	require.NoError(t, env.gov.Vote(poolB, poolB, id, true))

	id2, err := env.gov.CreateProposal(poolA, poolA, execHash, nil, nil)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EINSUFFICIENT_STAKE_LOCKUP), "%v", err)
	assert.Zero(t, id2)
}

func TestFailedBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	id, err := env.gov.CreateProposal(poolA, poolA, execHash, nil, nil)
	require.NoError(t, err)
	require.NoError(t, env.gov.Vote(small, small, id, true))

	env.setTime(610)
	ps, err := env.gov.ProposalState(id)
	require.NoError(t, err)
	assert.Equal(t, voting.StateFailed, ps)

	err = env.gov.Vote(poolB, poolB, id, true)
	assert.True(t, reverts.Is(err, reverts.InvalidState, voting.EPROPOSAL_VOTING_ALREADY_ENDED))
}

func TestUpdateGovernanceConfig(t *testing.T) {
	env := newTestEnv(t)
	cfg := Config{MinVotingThreshold: uint256.NewInt(7), RequiredProposerStake: 1, VotingPeriodSecs: 60}

	err := env.gov.UpdateGovernanceConfig(poolA, cfg)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_CORE_RESOURCE))

	require.NoError(t, env.gov.UpdateGovernanceConfig(chain.CoreResourceAddress, cfg))
	got, err := env.gov.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.MinVotingThreshold.Uint64())
	assert.Equal(t, uint64(60), got.VotingPeriodSecs)

	var updates int
	for _, ev := range env.state.Events() {
		if ev.Type == "UpdateConfigEvent" {
			updates++
		}
	}
	assert.Equal(t, 1, updates)

	// proposals are now cheap enough for the small pool
	_, err = env.gov.CreateProposal(small, small, execHash, nil, nil)
	require.NoError(t, err)
}
