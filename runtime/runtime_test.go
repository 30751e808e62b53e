// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/block"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/genesis"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/runtime"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/voting"
)

func newTestRuntime(t *testing.T, sink events.Sink) (*runtime.Runtime, *genesis.Config) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.New(db), sink, pop.Secp256k1Verifier{})
	ok, err := rt.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	cfg := genesis.DevConfig(2)
	gen, err := rt.Genesis(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Validators)
	return rt, cfg
}

func TestGenesisCommits(t *testing.T) {
	sink := &events.MemSink{}
	rt, cfg := newTestRuntime(t, sink)

	ok, err := rt.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, sink.OfType("NewEpochEvent"), 1)

	require.NoError(t, rt.View(func(rd *runtime.Reader) error {
		info, err := rd.Epoch()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), info.Epoch)
		assert.True(t, info.ReconfigurationEnabled)

		set, err := rd.ValidatorSet()
		require.NoError(t, err)
		assert.Len(t, set.ActiveValidators, 2)

		pool, ok, err := rd.Pool(cfg.Validators[0].Owner)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "active", pool.Status)
		assert.Equal(t, uint64(10_000_000), pool.Stake.Active)
		require.NotNil(t, pool.OwnerCapHolder)
		assert.Equal(t, cfg.Validators[0].Owner, *pool.OwnerCapHolder)

		_, ok, err = rd.Pool(chain.BytesToAddress([]byte("nobody")))
		require.NoError(t, err)
		assert.False(t, ok)

		bal, ok, err := rd.Balance(cfg.Accounts[0].Address)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint64(1_000_000), bal)
		return nil
	}))

	_, err = rt.Genesis(cfg)
	assert.True(t, reverts.IsRevertErr(err), "a second genesis must abort")
}

func TestFailedEntryPointRollsBack(t *testing.T) {
	sink := &events.MemSink{}
	rt, cfg := newTestRuntime(t, sink)
	owner0, owner1 := cfg.Validators[0].Owner, cfg.Validators[1].Owner
	flushed := len(sink.Events())

	// extraction succeeds, the deposit then fails
	err := rt.TransferOwnerCap(owner0, owner1)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists, stake.EOWNER_CAP_ALREADY_EXISTS), "%v", err)
	assert.Len(t, sink.Events(), flushed)

	require.NoError(t, rt.View(func(rd *runtime.Reader) error {
		pool, _, err := rd.Pool(owner0)
		require.NoError(t, err)
		require.NotNil(t, pool.OwnerCapHolder)
		assert.Equal(t, owner0, *pool.OwnerCapHolder)
		return nil
	}))

	// the next entry point starts from the rolled back state
	stranger := chain.BytesToAddress([]byte("stranger"))
	require.NoError(t, rt.RegisterCoinStore(stranger))
	require.NoError(t, rt.Transfer(owner0, stranger, 400))
	require.NoError(t, rt.TransferOwnerCap(owner0, stranger))
	assert.Greater(t, len(sink.Events()), flushed)

	require.NoError(t, rt.View(func(rd *runtime.Reader) error {
		pool, _, err := rd.Pool(owner0)
		require.NoError(t, err)
		assert.Equal(t, stranger, *pool.OwnerCapHolder)
		bal, _, err := rd.Balance(stranger)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), bal)
		return nil
	}))
}

type failingSink struct{ calls int }

func (s *failingSink) Write(context.Context, []*events.Event) error {
	s.calls++
	return errors.New("sink down")
}

func TestSinkFailureDoesNotAbort(t *testing.T) {
	sink := &failingSink{}
	rt, cfg := newTestRuntime(t, sink)
	assert.Equal(t, 1, sink.calls)

	require.NoError(t, rt.SetOperator(cfg.Validators[0].Owner, chain.BytesToAddress([]byte("operator"))))
	assert.Equal(t, 2, sink.calls)
}

func TestEpochsAndGovernance(t *testing.T) {
	sink := &events.MemSink{}
	rt, cfg := newTestRuntime(t, sink)
	owner0, owner1 := cfg.Validators[0].Owner, cfg.Validators[1].Owner

	require.NoError(t, rt.Prologue(block.Metadata{
		Epoch:           1,
		Proposer:        owner0,
		TimestampMicros: cfg.EpochIntervalSecs * chain.MicroConversionFactor,
	}))
	assert.Len(t, sink.OfType("NewBlockEvent"), 1)
	assert.Len(t, sink.OfType("NewEpochEvent"), 2)

	// stale epoch
	err := rt.Prologue(block.Metadata{Epoch: 1, Proposer: owner0, TimestampMicros: 61_000_000})
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, block.EINVALID_EPOCH), "%v", err)

	hash := []byte("upgrade-script")
	id, err := rt.CreateProposal(owner0, owner0, hash, []byte("ipfs://meta"), []byte("metahash"))
	require.NoError(t, err)

	require.NoError(t, rt.Vote(owner0, owner0, id, true))
	err = rt.Vote(owner0, owner0, id, true)
	assert.True(t, reverts.IsRevertErr(err), "double vote must abort")

	_, err = rt.Resolve(id, hash)
	assert.True(t, reverts.IsRevertErr(err), "pending proposal must not resolve")

	require.NoError(t, rt.Vote(owner1, owner1, id, true))
	require.NoError(t, rt.View(func(rd *runtime.Reader) error {
		p, st, err := rd.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, voting.StateSucceeded, st)
		assert.False(t, p.IsResolved)
		voted, err := rd.HasVoted(owner1, id)
		require.NoError(t, err)
		assert.True(t, voted)
		return nil
	}))

	_, err = rt.Resolve(id, []byte("other-script"))
	assert.True(t, reverts.IsRevertErr(err))

	content, err := rt.Resolve(id, hash)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://meta", content.MetadataLocation)
	assert.Len(t, sink.OfType("ResolveProposal"), 1)
}
