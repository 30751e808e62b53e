// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/lvldb"
)

type testPool struct {
	Active   uint64
	Operator chain.Address
	Keys     [][]byte
	Tally    *uint256.Int
}

var (
	testPools = NewResource[testPool]("test::Pool")
	testVotes = NewTable[bool]("test::Votes")
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestResource(t *testing.T) {
	st, _ := newTestState(t)
	addr := chain.BytesToAddress([]byte("alice"))

	_, exist, err := testPools.Get(st, addr)
	require.NoError(t, err)
	assert.False(t, exist)

	_, err = testPools.Borrow(st, addr)
	assert.True(t, IsNotFound(err))

	pool := &testPool{Active: 100, Operator: addr, Keys: [][]byte{{1, 2}}, Tally: uint256.NewInt(7)}
	require.NoError(t, testPools.Put(st, addr, pool))

	got, err := testPools.Borrow(st, addr)
	require.NoError(t, err)
	assert.Equal(t, pool, got)

	ok, err := testPools.Exists(st, addr)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := testPools.Remove(st, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), removed.Active)

	ok, err = testPools.Exists(st, addr)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = testPools.Remove(st, addr)
	assert.True(t, IsNotFound(err))
}

func TestTable(t *testing.T) {
	st, _ := newTestState(t)
	host := chain.FrameworkAddress
	yes := true

	ok, err := testVotes.Contains(st, host, []byte{1})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, testVotes.Put(st, host, []byte{1}, &yes))
	ok, err = testVotes.Contains(st, host, []byte{1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = testVotes.Contains(st, host, []byte{2})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = testVotes.Borrow(st, host, []byte{2})
	assert.True(t, IsNotFound(err))

	testVotes.Remove(st, host, []byte{1})
	ok, err = testVotes.Contains(st, host, []byte{1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)
	addr := chain.BytesToAddress([]byte("bob"))
	var h events.Handle

	require.NoError(t, testPools.Put(st, addr, &testPool{Active: 1}))
	events.Emit(st, &h, "first", nil)

	rev := st.NewCheckpoint()
	require.NoError(t, testPools.Put(st, addr, &testPool{Active: 2}))
	events.Emit(st, &h, "second", nil)

	inner := st.NewCheckpoint()
	require.NoError(t, testPools.Put(st, addr, &testPool{Active: 3}))
	st.RevertTo(inner)

	got, err := testPools.Borrow(st, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Active)
	assert.Len(t, st.Events(), 2)

	st.RevertTo(rev)
	got, err = testPools.Borrow(st, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Active)
	require.Len(t, st.Events(), 1)
	assert.Equal(t, "first", st.Events()[0].Type)

	assert.Panics(t, func() { st.RevertTo(rev) })
}

func TestCommitAndReload(t *testing.T) {
	st, db := newTestState(t)
	addr := chain.BytesToAddress([]byte("carol"))
	gone := chain.BytesToAddress([]byte("dave"))

	require.NoError(t, testPools.Put(st, addr, &testPool{Active: 42, Tally: uint256.NewInt(0)}))
	require.NoError(t, testPools.Put(st, gone, &testPool{Active: 1, Tally: uint256.NewInt(0)}))
	var h events.Handle
	events.Emit(st, &h, "committed", nil)

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	h1 := stage.Hash()
	assert.Equal(t, h1, st.Stage().Hash())
	require.NoError(t, stage.Commit())

	assert.Len(t, st.TakeEvents(), 1)
	assert.Empty(t, st.TakeEvents())

	_, err := testPools.Remove(st, gone)
	require.NoError(t, err)
	require.NoError(t, st.Stage().Commit())

	reloaded := New(db)
	got, err := testPools.Borrow(reloaded, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Active)

	ok, err := testPools.Exists(reloaded, gone)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = testPools.Exists(st, gone)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextGUID(t *testing.T) {
	st, _ := newTestState(t)
	a := chain.FrameworkAddress
	b := chain.CoreResourceAddress

	g0, err := st.NextGUID(a)
	require.NoError(t, err)
	g1, err := st.NextGUID(a)
	require.NoError(t, err)
	g2, err := st.NextGUID(b)
	require.NoError(t, err)

	assert.Equal(t, events.GUID{Creator: a, CreationNum: 0}, g0)
	assert.Equal(t, events.GUID{Creator: a, CreationNum: 1}, g1)
	assert.Equal(t, events.GUID{Creator: b, CreationNum: 0}, g2)
}
