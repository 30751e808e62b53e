// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timestamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/state"
)

func TestLifecycle(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	o := New(state.New(db))

	genesis, err := o.IsGenesis()
	require.NoError(t, err)
	assert.True(t, genesis)

	_, err = o.NowSeconds()
	assert.True(t, reverts.Is(err, reverts.InvalidState, ENOT_OPERATING))

	err = o.SetTimeHasStarted(chain.FrameworkAddress)
	assert.True(t, reverts.Is(err, reverts.PermissionDenied, ENOT_CORE_RESOURCE))
	require.NoError(t, o.SetTimeHasStarted(chain.CoreResourceAddress))
	err = o.SetTimeHasStarted(chain.CoreResourceAddress)
	assert.True(t, reverts.Is(err, reverts.InvalidState, ENOT_GENESIS))

	operating, err := o.IsOperating()
	require.NoError(t, err)
	assert.True(t, operating)

	proposer := chain.BytesToAddress([]byte("proposer"))
	tests := []struct {
		name     string
		account  chain.Address
		proposer chain.Address
		micros   uint64
		reason   uint64
	}{
		{"not vm", proposer, proposer, 1, EVM_ADDRESS},
		{"advance", chain.VMAddress, proposer, 2_500_000, 0},
		{"stall", chain.VMAddress, proposer, 2_500_000, ETIMESTAMP},
		{"backwards", chain.VMAddress, proposer, 1, ETIMESTAMP},
		{"nil block same time", chain.VMAddress, chain.VMAddress, 2_500_000, 0},
		{"nil block moves time", chain.VMAddress, chain.VMAddress, 3_000_000, ETIMESTAMP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := o.UpdateGlobalTime(tt.account, tt.proposer, tt.micros)
			if tt.reason == 0 {
				assert.NoError(t, err)
			} else {
				assert.True(t, reverts.IsRevertErr(err))
				revert, _ := err.(*reverts.ErrRevert)
				assert.Equal(t, tt.reason, revert.Reason)
			}
		})
	}

	secs, err := o.NowSeconds()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), secs)
	micros, err := o.NowMicroseconds()
	require.NoError(t, err)
	assert.Equal(t, uint64(2_500_000), micros)
}
