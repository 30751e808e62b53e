// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

// well known accounts
var (
	// VMAddress is the reserved signer of block prologues.
	VMAddress = Address{}
	// FrameworkAddress hosts framework owned resources such as the governance forum.
	FrameworkAddress = BytesToAddress([]byte{0x1})
	// CoreResourceAddress hosts the validator set, configuration and clock.
	CoreResourceAddress = BytesToAddress([]byte{0x0a, 0x55, 0x0c, 0x18})
)

// MicroConversionFactor converts seconds to microseconds.
const MicroConversionFactor uint64 = 1_000_000
