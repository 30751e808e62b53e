// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/state"
)

func newLedger(t *testing.T, trackSupply bool) (*Ledger, *state.State, *MintCapability, *BurnCapability) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	l := New(st)
	mint, burn, err := l.Initialize(chain.CoreResourceAddress, "Aptos Coin", "APT", 8, trackSupply)
	require.NoError(t, err)
	return l, st, mint, burn
}

func TestCoinArithmetic(t *testing.T) {
	a := Coin{value: 10}
	b := Coin{value: 5}

	require.NoError(t, a.Merge(&b))
	assert.Equal(t, uint64(15), a.Value())
	assert.Equal(t, uint64(0), b.Value())

	part, err := a.Extract(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), part.Value())
	assert.Equal(t, uint64(11), a.Value())

	_, err = a.Extract(12)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EINSUFFICIENT_BALANCE))

	all := a.ExtractAll()
	assert.Equal(t, uint64(11), all.Value())
	assert.Equal(t, uint64(0), a.Value())

	big := Coin{value: math.MaxUint64}
	one := Coin{value: 1}
	err = big.Merge(&one)
	assert.True(t, reverts.Is(err, reverts.OutOfRange, EOVERFLOW))
	assert.Equal(t, uint64(1), one.Value(), "failed merge leaves source intact")
}

func TestCoinRLP(t *testing.T) {
	c := Coin{value: 42}
	data, err := rlp.EncodeToBytes(&c)
	require.NoError(t, err)

	var got Coin
	require.NoError(t, rlp.DecodeBytes(data, &got))
	assert.Equal(t, uint64(42), got.Value())
}

func TestInitialize(t *testing.T) {
	l, _, _, _ := newLedger(t, true)

	_, _, err := l.Initialize(chain.CoreResourceAddress, "x", "x", 0, false)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists, ECOIN_INFO_ALREADY_PUBLISHED))

	db, _ := lvldb.NewMem()
	defer db.Close()
	_, _, err = New(state.New(db)).Initialize(chain.FrameworkAddress, "x", "x", 0, false)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_CORE_RESOURCE))
}

func TestMintDepositTransfer(t *testing.T) {
	l, st, mint, burn := newLedger(t, true)
	alice := chain.BytesToAddress([]byte("alice"))
	bob := chain.BytesToAddress([]byte("bob"))

	require.NoError(t, l.Register(alice))
	require.NoError(t, l.Register(bob))
	assert.True(t, reverts.Is(l.Register(alice), reverts.AlreadyExists, ECOIN_STORE_ALREADY_PUBLISHED))

	c, err := l.Mint(1000, mint)
	require.NoError(t, err)
	require.NoError(t, l.Deposit(alice, &c))
	assert.Equal(t, uint64(0), c.Value())

	require.NoError(t, l.Transfer(alice, bob, 300))

	bal, err := l.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), bal)
	bal, err = l.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), bal)

	err = l.Transfer(bob, alice, 301)
	assert.True(t, reverts.Is(err, reverts.InvalidArgument, EINSUFFICIENT_BALANCE))

	supply, tracked, err := l.Supply()
	require.NoError(t, err)
	assert.True(t, tracked)
	assert.Equal(t, uint256.NewInt(1000), supply)

	w, err := l.Withdraw(bob, 100)
	require.NoError(t, err)
	require.NoError(t, l.Burn(&w, burn))
	assert.Zero(t, w.Value())
	supply, _, _ = l.Supply()
	assert.Equal(t, uint256.NewInt(900), supply)

	// burning an emptied coin leaves supply untouched
	require.NoError(t, l.Burn(&w, burn))
	supply, _, _ = l.Supply()
	assert.Equal(t, uint256.NewInt(900), supply)

	// mint + deposit + withdraw + deposit + withdraw
	types := make([]string, 0)
	for _, ev := range st.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{"DepositEvent", "WithdrawEvent", "DepositEvent", "WithdrawEvent"}, types)

	_, err = l.Balance(chain.BytesToAddress([]byte("carol")))
	assert.True(t, reverts.Is(err, reverts.NotFound, ECOIN_STORE_NOT_PUBLISHED))
}

func TestCapabilities(t *testing.T) {
	l, _, mint, _ := newLedger(t, false)

	_, err := l.Mint(1, &MintCapability{})
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, EINVALID_CAPABILITY))

	holder := chain.FrameworkAddress
	_, err = l.BorrowMintCapability(holder)
	assert.True(t, reverts.Is(err, reverts.NotFound, EMINT_CAPABILITY_NOT_FOUND))

	require.NoError(t, l.StoreMintCapability(holder, mint))
	_, err = l.Mint(1, mint)
	assert.Error(t, err, "stored capability is consumed")

	borrowed, err := l.BorrowMintCapability(holder)
	require.NoError(t, err)
	c, err := l.Mint(5, borrowed)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.Value())

	_, tracked, err := l.Supply()
	require.NoError(t, err)
	assert.False(t, tracked)
}
