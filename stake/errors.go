// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import "github.com/econia-labs/econia-sub003/reverts"

const throw = reverts.Thrower("stake")

// abort reasons
const (
	ELOCK_TIME_TOO_SHORT                          uint64 = 1
	EWITHDRAW_NOT_ALLOWED                         uint64 = 2
	EVALIDATOR_CONFIG                             uint64 = 3
	ESTAKE_TOO_LOW                                uint64 = 4
	ESTAKE_TOO_HIGH                               uint64 = 5
	EALREADY_ACTIVE_VALIDATOR                     uint64 = 6
	ENOT_VALIDATOR                                uint64 = 7
	ELAST_VALIDATOR                               uint64 = 8
	ESTAKE_EXCEEDS_MAX                            uint64 = 9
	EALREADY_REGISTERED                           uint64 = 10
	ENOT_OWNER                                    uint64 = 11
	ENO_COINS_TO_WITHDRAW                         uint64 = 12
	ENOT_OPERATOR                                 uint64 = 13
	ELOCK_TIME_TOO_LONG                           uint64 = 14
	ENO_POST_GENESIS_VALIDATOR_SET_CHANGE_ALLOWED uint64 = 15
	EINVALID_PUBLIC_KEY                           uint64 = 16
	EINVALID_STAKE_RANGE                          uint64 = 17
	EINVALID_REWARDS_RATE                         uint64 = 18
	EOWNER_CAP_NOT_FOUND                          uint64 = 19
	EOWNER_CAP_ALREADY_EXISTS                     uint64 = 20
	EOVERFLOW                                     uint64 = 21
	ENOT_CORE_RESOURCE                            uint64 = 22
	EINVALID_STAKE_AMOUNT                         uint64 = 23
	ESTAKE_POOL_NOT_FOUND                         uint64 = 24
	EINVALID_LOCKUP_VALUE                         uint64 = 25
	ENOT_INITIALIZED                              uint64 = 26
)
