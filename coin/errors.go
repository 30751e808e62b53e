// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import "github.com/econia-labs/econia-sub003/reverts"

const throw = reverts.Thrower("coin")

// abort reasons
const (
	ECOIN_INFO_ALREADY_PUBLISHED  uint64 = 1
	ECOIN_INFO_NOT_PUBLISHED      uint64 = 2
	ECOIN_STORE_ALREADY_PUBLISHED uint64 = 3
	ECOIN_STORE_NOT_PUBLISHED     uint64 = 4
	EINSUFFICIENT_BALANCE         uint64 = 5
	ETOTAL_SUPPLY_OVERFLOW        uint64 = 7
	EINVALID_CAPABILITY           uint64 = 8
	EZERO_COIN_AMOUNT             uint64 = 9
	ENOT_CORE_RESOURCE            uint64 = 10
	EMINT_CAPABILITY_NOT_FOUND    uint64 = 11
	EOVERFLOW                     uint64 = 12
)
