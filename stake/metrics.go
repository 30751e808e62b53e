// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import "github.com/econia-labs/econia-sub003/metrics"

var (
	metricEpochs           = metrics.LazyLoadCounter("stake_epochs_total")
	metricRewardsMinted    = metrics.LazyLoadCounter("stake_rewards_minted_total")
	metricActiveValidators = metrics.LazyLoadGauge("stake_active_validators")
	metricVotingPower      = metrics.LazyLoadGauge("stake_total_voting_power")
)
