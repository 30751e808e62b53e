// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    Address
		wantErr bool
	}{
		{"0x1", FrameworkAddress, false},
		{"0xa550c18", CoreResourceAddress, false},
		{"0x0", VMAddress, false},
		{"0X01", FrameworkAddress, false},
		{"1", Address{}, true},
		{"0x", Address{}, true},
		{"0xzz", Address{}, true},
		{"0x" + strings.Repeat("0", 65), Address{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressStrings(t *testing.T) {
	assert.Equal(t, "0xa550c18", CoreResourceAddress.ShortString())
	assert.Equal(t, "0x0", VMAddress.ShortString())
	assert.Len(t, FrameworkAddress.String(), 66)

	parsed, err := ParseAddress(FrameworkAddress.String())
	require.NoError(t, err)
	assert.Equal(t, FrameworkAddress, parsed)
}

func TestAddressJSON(t *testing.T) {
	type wrapper struct {
		Addr Address `json:"addr"`
	}
	data, err := json.Marshal(&wrapper{Addr: CoreResourceAddress})
	require.NoError(t, err)

	var w wrapper
	require.NoError(t, json.Unmarshal(data, &w))
	assert.Equal(t, CoreResourceAddress, w.Addr)
}

func TestBlake2b(t *testing.T) {
	a := Blake2b([]byte("ab"))
	b := Blake2b([]byte("a"), []byte("b"))
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())
}
