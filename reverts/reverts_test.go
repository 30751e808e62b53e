// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("stake", InvalidState, 8, "last validator")
	assert.Equal(t, "last validator", revert.Message())
	assert.Equal(t, "stake: invalid_state(8): last validator", revert.Error())
	assert.Equal(t, uint64(0x30008), revert.Code())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "join")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestIs(t *testing.T) {
	thrower := Thrower("governance")
	err := errors.Wrap(thrower.InvalidArgument(4, "already voted on %d", 1), "vote")

	assert.True(t, Is(err, InvalidArgument, 4))
	assert.False(t, Is(err, InvalidArgument, 3))
	assert.False(t, Is(err, InvalidState, 4))
	assert.False(t, Is(errors.New("plain"), InvalidArgument, 4))

	cat, ok := CategoryOf(err)
	assert.True(t, ok)
	assert.Equal(t, InvalidArgument, cat)

	_, ok = CategoryOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestCategoryCodes(t *testing.T) {
	thrower := Thrower("m")
	tests := []struct {
		err  *ErrRevert
		code uint64
	}{
		{thrower.InvalidArgument(1, ""), 0x10001},
		{thrower.OutOfRange(2, ""), 0x20002},
		{thrower.InvalidState(3, ""), 0x30003},
		{thrower.PermissionDenied(4, ""), 0x50004},
		{thrower.NotFound(5, ""), 0x60005},
		{thrower.AlreadyExists(6, ""), 0x80006},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code(), tt.err.Category.String())
	}
}
