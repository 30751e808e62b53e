// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/econia-labs/econia-sub003/metrics"

var (
	metricEntryPoints   = metrics.LazyLoadCounterVec("runtime_entry_points_total", []string{"name", "result"})
	metricEntryDuration = metrics.LazyLoadHistogram("runtime_entry_duration_ms", metrics.Bucket10s)
)
