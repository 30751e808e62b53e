// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/econia-labs/econia-sub003/metrics"

var (
	metricCommittedKeys = metrics.LazyLoadCounter("state_committed_keys_total")
	metricCacheLookups  = metrics.LazyLoadGaugeVec("state_cache_lookups", []string{"result"})
)

func reportCacheStats(c interface{ Stats() (int64, int64) }) {
	hit, miss := c.Stats()
	metricCacheLookups().SetWithLabel(hit, map[string]string{"result": "hit"})
	metricCacheLookups().SetWithLabel(miss, map[string]string{"result": "miss"})
}
