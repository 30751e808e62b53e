// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/timestamp"
)

var testConfig = ValidatorSetConfiguration{
	MinimumStake:                100,
	MaximumStake:                10_000,
	RecurringLockupDurationSecs: 3600,
	AllowValidatorSetChange:     true,
	RewardsRate:                 1,
	RewardsRateDenominator:      100,
}

type testEnv struct {
	t      *testing.T
	state  *state.State
	coins  *coin.Ledger
	clock  *timestamp.Oracle
	staker *Stake
}

func newTestEnv(t *testing.T, cfg ValidatorSetConfiguration) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	coins := coin.New(st)
	clock := timestamp.New(st)
	staker := New(st, coins, clock, pop.AllowAll{})

	mint, _, err := coins.Initialize(chain.CoreResourceAddress, "Aptos Coin", "APT", 8, true)
	require.NoError(t, err)
	require.NoError(t, staker.InitializeValidatorSet(chain.CoreResourceAddress, cfg))
	require.NoError(t, staker.StoreMintCapability(chain.CoreResourceAddress, mint))

	return &testEnv{t: t, state: st, coins: coins, clock: clock, staker: staker}
}

func addr(name string) chain.Address {
	return chain.BytesToAddress([]byte(name))
}

// fund registers a ledger balance of amount for owner.
func (e *testEnv) fund(owner chain.Address, amount uint64) *testEnv {
	ok, err := e.coins.IsRegistered(owner)
	require.NoError(e.t, err)
	if !ok {
		require.NoError(e.t, e.coins.Register(owner))
	}
	mint, err := e.coins.BorrowMintCapability(chain.CoreResourceAddress)
	require.NoError(e.t, err)
	c, err := e.coins.Mint(amount, mint)
	require.NoError(e.t, err)
	require.NoError(e.t, e.coins.Deposit(owner, &c))
	return e
}

// validator registers owner, stakes amount and joins the set.
func (e *testEnv) validator(owner chain.Address, amount uint64) *testEnv {
	e.fund(owner, amount)
	require.NoError(e.t, e.staker.RegisterValidatorCandidate(owner, owner.Bytes(), nil, []byte("net"), []byte("full")))
	require.NoError(e.t, e.staker.AddStake(owner, amount))
	require.NoError(e.t, e.staker.JoinValidatorSet(owner, owner))
	return e
}

// start ends genesis.
func (e *testEnv) start() *testEnv {
	require.NoError(e.t, e.clock.SetTimeHasStarted(chain.CoreResourceAddress))
	return e
}

// setTime moves the ledger clock to secs.
func (e *testEnv) setTime(secs uint64) *testEnv {
	require.NoError(e.t, e.clock.UpdateGlobalTime(chain.VMAddress, addr("proposer"), secs*chain.MicroConversionFactor))
	return e
}

func (e *testEnv) epoch() *testEnv {
	require.NoError(e.t, e.staker.OnNewEpoch())
	return e
}

func (e *testEnv) blocks(n int, missed ...uint64) *testEnv {
	for i := 0; i < n; i++ {
		require.NoError(e.t, e.staker.UpdatePerformanceStatistics(missed))
	}
	return e
}

func (e *testEnv) stakeOf(pool chain.Address) Balances {
	b, err := e.staker.GetStake(pool)
	require.NoError(e.t, err)
	return b
}

func (e *testEnv) status(pool chain.Address) Status {
	s, err := e.staker.GetValidatorState(pool)
	require.NoError(e.t, err)
	return s
}
