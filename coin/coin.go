// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import (
	"io"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
)

// Coin is an amount of the native coin in flight. It can only be created by
// minting or withdrawing, and amounts only move between coins via Merge and
// Extract, so the total is conserved.
type Coin struct {
	value uint64
}

var (
	_ rlp.Encoder = (*Coin)(nil)
	_ rlp.Decoder = (*Coin)(nil)
)

// Zero returns an empty coin.
func Zero() Coin {
	return Coin{}
}

// Value returns the amount held by the coin.
func (c *Coin) Value() uint64 {
	return c.value
}

// Merge moves the whole of src into c.
func (c *Coin) Merge(src *Coin) error {
	sum, overflow := math.SafeAdd(c.value, src.value)
	if overflow {
		return throw.OutOfRange(EOVERFLOW, "merge overflows: %d + %d", c.value, src.value)
	}
	c.value = sum
	src.value = 0
	return nil
}

// Extract splits amount off c.
func (c *Coin) Extract(amount uint64) (Coin, error) {
	if c.value < amount {
		return Coin{}, throw.InvalidArgument(EINSUFFICIENT_BALANCE, "extract %d from %d", amount, c.value)
	}
	c.value -= amount
	return Coin{value: amount}, nil
}

// ExtractAll empties c into a new coin.
func (c *Coin) ExtractAll() Coin {
	out := Coin{value: c.value}
	c.value = 0
	return out
}

// EncodeRLP implements rlp.Encoder.
func (c *Coin) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, c.value)
}

// DecodeRLP implements rlp.Decoder.
func (c *Coin) DecodeRLP(s *rlp.Stream) error {
	v, err := s.Uint64()
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

// MintCapability authorizes minting. Only Initialize and BorrowMintCapability
// hand out usable ones; the zero value authorizes nothing.
type MintCapability struct {
	valid bool
}

// BurnCapability authorizes burning, with the same construction rules as MintCapability.
type BurnCapability struct {
	valid bool
}
