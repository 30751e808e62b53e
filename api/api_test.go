// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econia-labs/econia-sub003/api"
	"github.com/econia-labs/econia-sub003/api/subscriptions"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/genesis"
	"github.com/econia-labs/econia-sub003/logdb"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/runtime"
	"github.com/econia-labs/econia-sub003/state"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

type testNode struct {
	rt   *runtime.Runtime
	feed *events.Feed
	cfg  *genesis.Config
	ts   *httptest.Server
}

func newTestNode(t *testing.T) *testNode {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)

	feed := events.NewFeed()
	rt := runtime.New(state.New(db), events.MultiSink{logDB, feed}, pop.Secp256k1Verifier{})
	cfg := genesis.DevConfig(2)
	_, err = rt.Genesis(cfg)
	require.NoError(t, err)

	handler, closeSubs := api.New(rt, logDB, feed, api.Options{
		AllowedOrigins: "*",
		EnableMetrics:  true,
		LogsLimit:      100,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		logDB.Close()
		db.Close()
	})
	return &testNode{rt: rt, feed: feed, cfg: cfg, ts: ts}
}

func (n *testNode) get(t *testing.T, path string, v any) int {
	res, err := http.Get(n.ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if v != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return res.StatusCode
}

func TestQueries(t *testing.T) {
	n := newTestNode(t)
	owner := n.cfg.Validators[0].Owner

	var epoch runtime.EpochInfo
	assert.Equal(t, http.StatusOK, n.get(t, "/epoch", &epoch))
	assert.Equal(t, uint64(1), epoch.Epoch)

	var set struct {
		Active           []struct{ Address chain.Address } `json:"active"`
		TotalVotingPower uint64                            `json:"totalVotingPower"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/validators", &set))
	assert.Len(t, set.Active, 2)
	assert.Equal(t, uint64(20_000_000), set.TotalVotingPower)

	var perf struct {
		MissedVotes []uint64 `json:"missedVotes"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/validators/performance", &perf))
	assert.Len(t, perf.MissedVotes, 2)

	var pool runtime.PoolInfo
	assert.Equal(t, http.StatusOK, n.get(t, "/pools/"+owner.String(), &pool))
	assert.Equal(t, "active", pool.Status)
	assert.Equal(t, owner, pool.Operator)
	assert.Equal(t, http.StatusNotFound, n.get(t, "/pools/0x1234", nil))
	assert.Equal(t, http.StatusBadRequest, n.get(t, "/pools/zz", nil))

	var bal struct {
		Balance uint64 `json:"balance"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/accounts/"+owner.String()+"/balance", &bal))
	assert.Equal(t, uint64(1_000_000), bal.Balance)
	assert.Equal(t, http.StatusNotFound, n.get(t, "/accounts/0x1234/balance", nil))

	var govCfg struct {
		MinVotingThreshold string `json:"minVotingThreshold"`
		VotingPeriodSecs   uint64 `json:"votingPeriodSecs"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/governance/config", &govCfg))
	assert.Equal(t, "1000000", govCfg.MinVotingThreshold)
	assert.Equal(t, uint64(600), govCfg.VotingPeriodSecs)

	assert.Equal(t, http.StatusNotFound, n.get(t, "/governance/proposals/0", nil))
	assert.Equal(t, http.StatusBadRequest, n.get(t, "/governance/proposals/x", nil))
}

func TestProposalQuery(t *testing.T) {
	n := newTestNode(t)
	owner := n.cfg.Validators[0].Owner

	id, err := n.rt.CreateProposal(owner, owner, []byte("script"), []byte("ipfs://meta"), []byte("h"))
	require.NoError(t, err)
	require.NoError(t, n.rt.Vote(owner, owner, id, false))

	var p struct {
		State            string  `json:"state"`
		MetadataLocation *string `json:"metadataLocation"`
		NoVotes          string  `json:"noVotes"`
		ExpirationSecs   uint64  `json:"expirationSecs"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/governance/proposals/0", &p))
	assert.Equal(t, "pending", p.State)
	require.NotNil(t, p.MetadataLocation)
	assert.Equal(t, "ipfs://meta", *p.MetadataLocation)
	assert.Equal(t, "10000000", p.NoVotes)
	assert.Equal(t, uint64(600), p.ExpirationSecs)

	var voted struct {
		Voted bool `json:"voted"`
	}
	assert.Equal(t, http.StatusOK, n.get(t, "/governance/proposals/0/votes/"+owner.String(), &voted))
	assert.True(t, voted.Voted)
}

func TestEventsFilter(t *testing.T) {
	n := newTestNode(t)

	var all []logdb.Event
	assert.Equal(t, http.StatusOK, n.get(t, "/events?type=NewEpochEvent", &all))
	require.Len(t, all, 1)
	assert.Equal(t, chain.CoreResourceAddress, all[0].Key.Creator)

	var page []logdb.Event
	assert.Equal(t, http.StatusOK, n.get(t, "/events?limit=3&order=desc", &page))
	require.Len(t, page, 3)
	assert.Greater(t, page[0].Seq, page[1].Seq)

	assert.Equal(t, http.StatusForbidden, n.get(t, "/events?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, n.get(t, "/events?order=up", nil))
	assert.Equal(t, http.StatusBadRequest, n.get(t, "/events?creator=nope", nil))
}

func TestSubscribeEvents(t *testing.T) {
	n := newTestNode(t)
	owner := n.cfg.Validators[0].Owner
	to := n.cfg.Validators[1].Owner

	url := "ws" + strings.TrimPrefix(n.ts.URL, "http") + "/subscriptions/events?type=DepositEvent"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return n.feed.Len() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, n.rt.Transfer(owner, to, 5))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		SubscriptionID string `json:"subscriptionId"`
		Event          struct {
			Key struct {
				Creator chain.Address `json:"creator"`
			} `json:"key"`
			Type string `json:"type"`
			Data struct {
				Amount uint64 `json:"amount"`
			} `json:"data"`
		} `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.NotEmpty(t, msg.SubscriptionID)
	assert.Equal(t, "DepositEvent", msg.Event.Type)
	assert.Equal(t, to, msg.Event.Key.Creator)
	assert.Equal(t, uint64(5), msg.Event.Data.Amount)
}

func TestEventFilterMatch(t *testing.T) {
	a := chain.BytesToAddress([]byte("a"))
	ev := &events.Event{Key: events.GUID{Creator: a}, Type: "VoteEvent"}

	assert.True(t, (&subscriptions.EventFilter{}).Match(ev))
	assert.True(t, (&subscriptions.EventFilter{Type: "VoteEvent", Creator: &a}).Match(ev))
	assert.False(t, (&subscriptions.EventFilter{Type: "DepositEvent"}).Match(ev))
	b := chain.BytesToAddress([]byte("b"))
	assert.False(t, (&subscriptions.EventFilter{Creator: &b}).Match(ev))
}

func TestMetricsMiddleware(t *testing.T) {
	n := newTestNode(t)
	n.get(t, "/validators", nil)
	n.get(t, "/validators", nil)
	n.get(t, "/pools/0x1234", nil)

	res, err := http.Get(n.ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["epochd_api_request_count"].GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		counts[labels["name"]+"/"+labels["code"]] += m.GetCounter().GetValue()
	}
	assert.GreaterOrEqual(t, counts["validators_get_set/200"], float64(2))
	assert.GreaterOrEqual(t, counts["pools_get_pool/404"], float64(1))
}
